package lib

// Object is a JSON object under construction.
// Values must be encodable with encoding/json.
type Object map[string]interface{}

// Array is an ordered JSON array under construction.
type Array []interface{}

// Add sets key to value, replacing any previous value.
func (o Object) Add(key string, value interface{}) {
	o[key] = value
}

// Add appends value to the end of the array.
func (a *Array) Add(value interface{}) {
	*a = append(*a, value)
}

// AddIfNotNull sets key to *value when value is non-nil.
// A nil value leaves obj untouched, so the key is omitted rather than
// encoded as null.
func AddIfNotNull[T any](obj Object, key string, value *T) {
	if value == nil {
		return
	}
	obj[key] = *value
}
