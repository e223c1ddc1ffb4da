package feed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"matchbook/internal/common"
)

var (
	ErrTooFewFields = errors.New("record has too few fields")
	ErrUnknownSide  = errors.New("unknown side keyword")
)

// minRecordFields covers "<id>: <Buy|Sell> <qty> <unit> @ <price>".
const minRecordFields = 6

// ParseOrder decodes one whitespace-delimited order record.
//
// Field 0 is the order id with a trailing colon, field 1 the side
// keyword (case-sensitive), field 2 the quantity and field 5 the price.
// Fields 3, 4 and anything after the price are descriptive tokens and
// are not interpreted.
func ParseOrder(line string) (common.Order, error) {
	parts := strings.Fields(line)
	if len(parts) < minRecordFields {
		return common.Order{}, fmt.Errorf("%w: got %d, want at least %d",
			ErrTooFewFields, len(parts), minRecordFields)
	}

	var side common.Side
	switch parts[1] {
	case "Buy":
		side = common.Buy
	case "Sell":
		side = common.Sell
	default:
		return common.Order{}, fmt.Errorf("%w: %q", ErrUnknownSide, parts[1])
	}

	id, err := strconv.ParseUint(strings.TrimSuffix(parts[0], ":"), 10, 64)
	if err != nil {
		return common.Order{}, fmt.Errorf("bad order id %q: %w", parts[0], err)
	}
	quantity, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return common.Order{}, fmt.Errorf("bad quantity %q: %w", parts[2], err)
	}
	price, err := strconv.ParseUint(parts[5], 10, 64)
	if err != nil {
		return common.Order{}, fmt.Errorf("bad price %q: %w", parts[5], err)
	}

	return common.Order{
		ID:       id,
		Side:     side,
		Price:    price,
		Quantity: quantity,
	}, nil
}
