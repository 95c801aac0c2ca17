package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"catalogo/internal"
)

var ErrUnknownOrigin = errors.New("catalog: unknown origin")

// ZMM045Unit stands in for the unit of measure, which zmm045 rows do not carry.
const ZMM045Unit = "ZMM045"

// RawRecord is one decoded dataset element tagged with the dataset it came from.
type RawRecord struct {
	Origin internal.Origin
	Fields map[string]any
}

type adapterFunc func(fields map[string]any) internal.Record

var adapters = map[internal.Origin]adapterFunc{
	internal.OriginCD1:    adaptCD1,
	internal.OriginZMM045: adaptZMM045,
}

func Adapt(raw RawRecord) (internal.Record, error) {
	fn, ok := adapters[raw.Origin]
	if !ok {
		return internal.Record{}, fmt.Errorf("%w: %q", ErrUnknownOrigin, raw.Origin)
	}
	return fn(raw.Fields), nil
}

func AdaptAll(origin internal.Origin, rows []map[string]any) ([]internal.Record, error) {
	out := make([]internal.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := Adapt(RawRecord{Origin: origin, Fields: row})
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func KnownOrigin(origin internal.Origin) bool {
	_, ok := adapters[origin]
	return ok
}

func adaptCD1(fields map[string]any) internal.Record {
	return internal.Record{
		ID:               toString(fields["id_item"]),
		ShortDescription: toString(fields["desc_curta"]),
		LongDescription:  toString(fields["desc_longa"]),
		Unit:             toString(fields["unid_pec"]),
		Origin:           internal.OriginCD1,
	}
}

func adaptZMM045(fields map[string]any) internal.Record {
	return internal.Record{
		ID:               strings.TrimSpace(toString(fields["material"])),
		ShortDescription: strings.TrimSpace(toString(fields["descricao"])),
		LongDescription:  strings.TrimSpace(toString(fields["texto_completo"])),
		Unit:             ZMM045Unit,
		Origin:           internal.OriginZMM045,
	}
}

// toString renders scalars the way they appear in the source file. Nested
// values and nulls collapse to "".
func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
