package transport

import "net/url"

// Query builds url.Values from a flat parameter map, dropping empty values
// so an unset filter never appears on the wire.
func Query(params map[string]string) url.Values {
	values := url.Values{}
	for k, v := range params {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	return values
}
