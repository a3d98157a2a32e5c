package form

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	playform "github.com/go-playground/form"
	"github.com/shopspring/decimal"
)

// fieldSet describes the editable fields of a draft type.
type fieldSet struct {
	names  []string
	labels map[string]string
}

func fieldsOf(t reflect.Type) fieldSet {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fs := fieldSet{labels: map[string]string{}}
	if t.Kind() != reflect.Struct {
		return fs
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			continue
		}
		l := f.Tag.Get("label")
		if l == "" {
			l = f.Name
		}
		fs.names = append(fs.names, name)
		fs.labels[name] = l
	}
	return fs
}

func (fs fieldSet) has(name string) bool {
	_, ok := fs.labels[name]
	return ok
}

func newDecoder() *playform.Decoder {
	d := playform.NewDecoder()
	d.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		s := strings.TrimSpace(vals[0])
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	}, decimal.Decimal{})
	return d
}

// decodeField writes raw into the field named name of dst.
func decodeField(d *playform.Decoder, dst any, name, raw string) error {
	if err := d.Decode(dst, url.Values{name: {raw}}); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}
