package field

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format identifies an on-disk field encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatMsgpack
	FormatMsgpackZstd
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	case FormatMsgpackZstd:
		return "msgpack.zst"
	default:
		return "unknown"
	}
}

// FormatForPath picks the encoding from the file name.
func FormatForPath(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".msgpack.zst"):
		return FormatMsgpackZstd, nil
	case strings.HasSuffix(name, ".msgpack"):
		return FormatMsgpack, nil
	case strings.HasSuffix(name, ".json"):
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("unrecognized field file extension: %s", path)
	}
}

// jsonAxis mirrors the JSON layout {array, min, max} where min/max may be
// absent.
type jsonAxis struct {
	Array []float32 `json:"array"`
	Min   *float32  `json:"min,omitempty"`
	Max   *float32  `json:"max,omitempty"`
}

type jsonRaw struct {
	U      jsonAxis  `json:"u"`
	V      jsonAxis  `json:"v"`
	Speed  *jsonAxis `json:"speed,omitempty"`
	Mask   *jsonAxis `json:"mask,omitempty"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Bounds Bounds    `json:"bounds"`
}

func (a jsonAxis) axis() Axis {
	ax := Axis{Array: a.Array}
	if a.Min != nil && a.Max != nil {
		ax.Min, ax.Max, ax.HasRange = *a.Min, *a.Max, true
	}
	return ax
}

func toJSONAxis(a Axis) jsonAxis {
	ja := jsonAxis{Array: a.Array}
	if a.HasRange {
		min, max := a.Min, a.Max
		ja.Min, ja.Max = &min, &max
	}
	return ja
}

// Decode reads a raw field in the given format.
func Decode(r io.Reader, format Format) (Raw, error) {
	switch format {
	case FormatJSON:
		var jr jsonRaw
		if err := json.NewDecoder(r).Decode(&jr); err != nil {
			return Raw{}, fmt.Errorf("decoding json field: %w", err)
		}
		raw := Raw{
			U:      jr.U.axis(),
			V:      jr.V.axis(),
			Width:  jr.Width,
			Height: jr.Height,
			Bounds: jr.Bounds,
		}
		if jr.Speed != nil {
			s := jr.Speed.axis()
			raw.Speed = &s
		}
		if jr.Mask != nil {
			m := jr.Mask.axis()
			raw.Mask = &m
		}
		return raw, nil

	case FormatMsgpack:
		var raw Raw
		if err := msgpack.NewDecoder(r).Decode(&raw); err != nil {
			return Raw{}, fmt.Errorf("decoding msgpack field: %w", err)
		}
		return raw, nil

	case FormatMsgpackZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return Raw{}, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer zr.Close()
		return Decode(zr, FormatMsgpack)

	default:
		return Raw{}, fmt.Errorf("unknown field format %d", format)
	}
}

// Encode writes a raw field in the given format.
func Encode(w io.Writer, raw Raw, format Format) error {
	switch format {
	case FormatJSON:
		jr := jsonRaw{
			U:      toJSONAxis(raw.U),
			V:      toJSONAxis(raw.V),
			Width:  raw.Width,
			Height: raw.Height,
			Bounds: raw.Bounds,
		}
		if raw.Speed != nil {
			s := toJSONAxis(*raw.Speed)
			jr.Speed = &s
		}
		if raw.Mask != nil {
			m := toJSONAxis(*raw.Mask)
			jr.Mask = &m
		}
		if err := json.NewEncoder(w).Encode(&jr); err != nil {
			return fmt.Errorf("encoding json field: %w", err)
		}
		return nil

	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(&raw); err != nil {
			return fmt.Errorf("encoding msgpack field: %w", err)
		}
		return nil

	case FormatMsgpackZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("opening zstd writer: %w", err)
		}
		if err := Encode(zw, raw, FormatMsgpack); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()

	default:
		return fmt.Errorf("unknown field format %d", format)
	}
}

// LoadRaw reads a raw field file, choosing the decoder from its extension.
func LoadRaw(path string) (Raw, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return Raw{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Raw{}, fmt.Errorf("opening field file: %w", err)
	}
	defer f.Close()

	raw, err := Decode(f, format)
	if err != nil {
		return Raw{}, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// Load reads and normalizes a field file.
func Load(path string) (*Field, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	f, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Save writes a raw field, choosing the encoder from the file extension.
func Save(path string, raw Raw) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating field file: %w", err)
	}
	if err := Encode(f, raw, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
