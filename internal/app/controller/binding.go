package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/veissa/tiredOfLife/internal/app/model"
)

// requestFields reads a body sent as JSON, multipart/form-data or
// x-www-form-urlencoded and exposes the fields the same way.
type requestFields struct {
	json map[string]json.RawMessage
	form map[string][]string
}

func readRequestFields(c *gin.Context) (*requestFields, error) {
	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		return &requestFields{form: form.Value}, nil
	case binding.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
		return &requestFields{form: c.Request.PostForm}, nil
	}

	fields := &requestFields{json: map[string]json.RawMessage{}}
	if c.Request.Body == nil {
		return fields, nil
	}
	if err := json.NewDecoder(c.Request.Body).Decode(&fields.json); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return fields, nil
}

func (f *requestFields) raw(key string) (json.RawMessage, bool) {
	v, ok := f.json[key]
	if !ok || string(v) == "null" {
		return nil, false
	}
	return v, true
}

func (f *requestFields) formValues(key string) []string {
	if v := f.form[key]; len(v) > 0 {
		return v
	}
	return f.form[key+"[]"]
}

// str returns the field as text. JSON numbers, booleans and objects are
// returned as their literal text. Nil means the field was not sent.
func (f *requestFields) str(key string) *string {
	if f.json == nil {
		values := f.formValues(key)
		if len(values) == 0 {
			return nil
		}
		return &values[0]
	}

	v, ok := f.raw(key)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return &s
	}
	s = string(bytes.TrimSpace(v))
	return &s
}

// boolean parses "true"/"false" style values.
func (f *requestFields) boolean(key string) (*bool, error) {
	s := f.str(key)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(*s))
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &b, nil
}

// list accepts repeated form fields, a single value, a JSON array or a
// JSON array encoded as a string. Nil means the field was not sent.
func (f *requestFields) list(key string) []string {
	if f.json == nil {
		values := f.formValues(key)
		if len(values) == 0 {
			return nil
		}
		if len(values) == 1 {
			return splitListValue(values[0])
		}
		return values
	}

	v, ok := f.raw(key)
	if !ok {
		return nil
	}
	var items []interface{}
	if err := json.Unmarshal(v, &items); err == nil {
		return stringify(items)
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return splitListValue(s)
	}
	return []string{string(v)}
}

func splitListValue(s string) []string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") {
		var items []interface{}
		if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
			return stringify(items)
		}
	}
	return []string{s}
}

func stringify(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(item))
	}
	return out
}

// stringList is a JSON list that also accepts a bare string.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}
	f := &requestFields{json: map[string]json.RawMessage{"v": b}}
	*l = f.list("v")
	return nil
}

// pickupField is pickup info sent either as an object or as JSON text.
// Unparseable input yields an empty value.
type pickupField struct {
	model.PickupInfo
}

func (p *pickupField) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		info, err := model.ParsePickupInfo(s)
		if err == nil {
			p.PickupInfo = info
		}
		return nil
	}
	_ = json.Unmarshal(b, &p.PickupInfo)
	return nil
}

// bindingFields lists the request fields a gin binding error refers to.
func bindingFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, lowerFirst(fe.Field()))
	}
	return fields
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
