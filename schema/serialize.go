package schema

import (
	"fmt"
	"reflect"
	"time"

	"github.com/zoobzio/forge/httpmsg"
)

// WrongRequestTypeError is raised when the params passed to a route proxy
// verb method do not match the schema's request type (spec.md §4.3).
type WrongRequestTypeError struct {
	Want reflect.Type
	Got  reflect.Type
}

func (e *WrongRequestTypeError) Error() string {
	return fmt.Sprintf("schema: wrong request type: want %s, got %s", e.Want, e.Got)
}

// Serialize builds an httpmsg.Request from a request struct instance,
// partitioning its fields by location (spec.md §4.1). contentType resolves
// the body serializer; it defaults to JSONContentType when empty.
func Serialize(params any, method httpmsg.Method, urlPattern string, serializers *Serializers, contentType string) (*httpmsg.Request, error) {
	v := reflect.ValueOf(params)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("schema: nil request params")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: request params must be a struct, got %s", v.Kind())
	}

	descs, err := Describe(v.Type())
	if err != nil {
		return nil, err
	}

	req := httpmsg.New(method, urlPattern)

	for _, d := range ByLocation(descs, Path) {
		fv := v.FieldByIndex(d.Index)
		str, present := stringify(fv)
		if !present {
			return nil, &httpmsg.MissingPathParamError{Pattern: urlPattern, Param: d.WireName()}
		}
		req.Path[d.WireName()] = str
	}

	for _, d := range ByLocation(descs, Query) {
		fv := v.FieldByIndex(d.Index)
		if qv, ok := fieldToQueryValue(fv); ok {
			req.Query[d.WireName()] = qv
		} else if d.HasDefault {
			req.Query[d.WireName()] = httpmsg.Scalar(d.Default)
		}
	}

	for _, d := range ByLocation(descs, Header) {
		fv := v.FieldByIndex(d.Index)
		if str, present := stringify(fv); present {
			req.Header[d.WireName()] = str
		} else if d.HasDefault {
			req.Header[d.WireName()] = d.Default
		}
	}

	if contentType == "" {
		contentType = JSONContentType
	}
	bodyFields := map[string]any{}
	for _, d := range ByLocation(descs, Body) {
		fv := v.FieldByIndex(d.Index)
		if val, present := fieldValue(fv); present {
			bodyFields[d.WireName()] = val
		} else if d.HasDefault {
			bodyFields[d.WireName()] = d.Default
		}
	}
	if len(bodyFields) == 0 {
		req.Body = ""
	} else {
		ser, err := serializers.Resolve(contentType)
		if err != nil {
			return nil, err
		}
		req.Body, err = ser.Marshal(bodyFields)
		if err != nil {
			return nil, err
		}
		req.Header["Content-Type"] = contentType
	}

	return req, nil
}

// stringify renders a scalar field to its wire string form, unwrapping
// pointers and secrets. The second return is false when the field is a nil
// pointer (i.e. absent).
func stringify(fv reflect.Value) (string, bool) {
	val, present := fieldValue(fv)
	if !present {
		return "", false
	}
	if r, ok := val.(Revealer); ok {
		return r.Reveal(), true
	}
	if t, ok := val.(time.Time); ok {
		return t.Format(time.RFC3339Nano), true
	}
	return fmt.Sprint(val), true
}

// fieldValue dereferences pointers and reports presence (nil pointer ⇒
// absent, matching the query/header exclude_none behavior of spec.md §4.1).
func fieldValue(fv reflect.Value) (any, bool) {
	for fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return nil, false
		}
		fv = fv.Elem()
	}
	return fv.Interface(), true
}

func fieldToQueryValue(fv reflect.Value) (httpmsg.QueryValue, bool) {
	for fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return httpmsg.QueryValue{}, false
		}
		fv = fv.Elem()
	}
	if fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() != reflect.Uint8 {
		items := make([]string, fv.Len())
		for i := 0; i < fv.Len(); i++ {
			items[i] = fmt.Sprint(fv.Index(i).Interface())
		}
		return httpmsg.ListOf(items...), true
	}
	val := fv.Interface()
	if r, ok := val.(Revealer); ok {
		return httpmsg.Scalar(r.Reveal()), true
	}
	if t, ok := val.(time.Time); ok {
		return httpmsg.Scalar(t.Format(time.RFC3339Nano)), true
	}
	return httpmsg.Scalar(fmt.Sprint(val)), true
}
