package response

import (
	"time"

	"room-allocation-engine/internal/domain/stay"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

// copyOpts renders ids as strings, instants as RFC 3339 and money as decimal strings.
// Calendar dates are tagged copier:"-" and formatted by hand with formatDate.
var copyOpts = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: uuid.UUID{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return src.(uuid.UUID).String(), nil
			},
		},
		{
			SrcType: time.Time{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				t := src.(time.Time)
				if t.IsZero() {
					return "", nil
				}
				return t.UTC().Format(time.RFC3339), nil
			},
		},
		{
			SrcType: decimal.Decimal{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return src.(decimal.Decimal).StringFixed(2), nil
			},
		},
	},
}

func copyInto(dst, src any) {
	// every destination field is a string, int or bool, so the copy cannot fail
	_ = copier.CopyWithOption(dst, src, copyOpts)
}

func formatDate(t time.Time) string {
	return t.Format(stay.DateLayout)
}
