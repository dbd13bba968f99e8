package venue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	ErrMalformedDataset = errors.New("malformed dataset")
	ErrVenueNotFound    = errors.New("venue not found")
)

const defaultInk = "#000000"

// Decode parses a seat-map dataset. Seats are indexed in the order they appear
// in the document's "seats" object, so the decoder walks the raw JSON instead
// of going through a Go map.
func Decode(data []byte) (*Venue, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedDataset)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformedDataset)
	}

	v := &Venue{ID: root.Get("id").String()}
	var err error
	if v.Width, err = number(root, "width", "width"); err != nil {
		return nil, err
	}
	if v.Height, err = number(root, "height", "height"); err != nil {
		return nil, err
	}

	seats := root.Get("seats")
	if !seats.IsObject() {
		return nil, fmt.Errorf("%w: seats: missing or not an object", ErrMalformedDataset)
	}
	seen := make(map[string]struct{})
	seats.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		path := "seats." + id
		if _, dup := seen[id]; dup {
			err = fmt.Errorf("%w: %s: duplicate seat id", ErrMalformedDataset, path)
			return false
		}
		seen[id] = struct{}{}

		s := Seat{ID: id}
		if s.X, err = number(value, "x", path); err != nil {
			return false
		}
		if s.Y, err = number(value, "y", path); err != nil {
			return false
		}
		v.Seats = append(v.Seats, s)
		return true
	})
	if err != nil {
		return nil, err
	}

	if v.Shapes, err = decodeShapes(root.Get("shapes")); err != nil {
		return nil, err
	}
	if v.Labels, err = decodeLabels(root.Get("text-elements")); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeShapes(list gjson.Result) ([]Shape, error) {
	if !list.Exists() {
		return nil, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: shapes: not an array", ErrMalformedDataset)
	}
	var (
		out []Shape
		err error
	)
	for i, item := range list.Array() {
		path := fmt.Sprintf("shapes[%d]", i)
		var s Shape
		if s.X, err = number(item, "x", path); err != nil {
			return nil, err
		}
		if s.Y, err = number(item, "y", path); err != nil {
			return nil, err
		}
		if s.Width, err = number(item, "width", path); err != nil {
			return nil, err
		}
		if s.Height, err = number(item, "height", path); err != nil {
			return nil, err
		}
		s.Fill = item.Get("ShapeFillColour").String()
		if s.Fill == "" {
			s.Fill = defaultInk
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeLabels(list gjson.Result) ([]Label, error) {
	if !list.Exists() {
		return nil, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: text-elements: not an array", ErrMalformedDataset)
	}
	var (
		out []Label
		err error
	)
	for i, item := range list.Array() {
		path := fmt.Sprintf("text-elements[%d]", i)
		var l Label
		if l.X, err = number(item, "x", path); err != nil {
			return nil, err
		}
		if l.Y, err = number(item, "y", path); err != nil {
			return nil, err
		}
		if l.Size, err = number(item, "size", path); err != nil {
			return nil, err
		}
		content := item.Get("content")
		if content.Type != gjson.String {
			return nil, fmt.Errorf("%w: %s.content: missing or not a string", ErrMalformedDataset, path)
		}
		l.Content = content.String()
		l.Color = item.Get("color").String()
		if l.Color == "" {
			l.Color = defaultInk
		}
		out = append(out, l)
	}
	return out, nil
}

func number(obj gjson.Result, field, path string) (float64, error) {
	r := obj.Get(field)
	if r.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %s.%s: missing or not a number", ErrMalformedDataset, path, field)
	}
	return r.Float(), nil
}

// Encode writes the dataset back out in the same shape Decode reads, keeping
// the seat order intact.
func Encode(v *Venue) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if v.ID != "" {
		id, _ := json.Marshal(v.ID)
		buf.WriteString(`"id":`)
		buf.Write(id)
		buf.WriteByte(',')
	}
	fmt.Fprintf(&buf, `"width":%s,"height":%s,"seats":{`, jsonNumber(v.Width), jsonNumber(v.Height))
	for i, s := range v.Seats {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.ID)
		if err != nil {
			return nil, fmt.Errorf("marshal seat id: %w", err)
		}
		buf.Write(key)
		fmt.Fprintf(&buf, `:{"x":%s,"y":%s}`, jsonNumber(s.X), jsonNumber(s.Y))
	}
	buf.WriteString(`},"shapes":`)
	shapes, err := json.Marshal(nonNil(v.Shapes))
	if err != nil {
		return nil, fmt.Errorf("marshal shapes: %w", err)
	}
	buf.Write(shapes)
	buf.WriteString(`,"text-elements":`)
	labels, err := json.Marshal(nonNil(v.Labels))
	if err != nil {
		return nil, fmt.Errorf("marshal labels: %w", err)
	}
	buf.Write(labels)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
