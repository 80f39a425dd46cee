package endpoint

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/httpclient"
)

var placeholder = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// Build resolves d and p into a transport request. Missing path parameters
// fail with a Setup error naming them.
func Build(d Descriptor, p Params) (httpclient.Request, error) {
	if err := d.Validate(); err != nil {
		return httpclient.Request{}, err
	}

	path, unresolved := ExpandPath(d.Endpoint, p.Path)
	if len(unresolved) > 0 {
		return httpclient.Request{}, errors.Setupf("missing path parameters for %s: %s",
			d.Endpoint, strings.Join(unresolved, ", "))
	}

	return httpclient.Request{
		Method:       d.Method,
		Path:         path,
		RawQuery:     EncodeQuery(p.Query),
		Headers:      headersFor(d.Headers, p.Body),
		Body:         p.Body,
		Timeout:      d.EffectiveTimeout(),
		RequiresAuth: d.RequiresAuth,
		Name:         d.Label(),
	}, nil
}

// ExpandPath replaces every :key placeholder whose key has a non-nil value
// in params with the path-escaped value. Other placeholders are left in
// place and returned in unresolved, in template order.
func ExpandPath(template string, params map[string]any) (path string, unresolved []string) {
	path = placeholder.ReplaceAllStringFunc(template, func(token string) string {
		key := token[1:]
		v, ok := params[key]
		if !ok || isNil(v) {
			unresolved = append(unresolved, key)
			return token
		}
		return url.PathEscape(format(v))
	})
	return path, unresolved
}

// EncodeQuery serialises params with keys in sorted order. Nil values are
// dropped and slices use bracket notation (tags[]=a&tags[]=b). It returns
// "" when nothing remains.
func EncodeQuery(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	for _, k := range keys {
		v := params[k]
		if isNil(v) {
			continue
		}
		key := url.QueryEscape(k)
		rv := reflect.Indirect(reflect.ValueOf(v))
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				elem := rv.Index(i).Interface()
				if isNil(elem) {
					continue
				}
				add(key+"[]", format(elem))
			}
			continue
		}
		add(key, format(v))
	}
	return b.String()
}

// headersFor copies the descriptor headers. Multipart bodies drop any
// explicit Content-Type so the transport can set the boundary.
func headersFor(headers map[string]string, body any) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	_, multipart := body.(*httpclient.MultipartBody)
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if multipart && strings.EqualFold(k, "Content-Type") {
			continue
		}
		out[k] = v
	}
	return out
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func format(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	switch x := rv.Interface().(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
