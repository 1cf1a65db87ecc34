package hcl

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ToGo converts a cty value into its JSON-shaped Go equivalent.
func ToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value of type %s is not known", val.Type().FriendlyName())
	}
	data, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return nil, fmt.Errorf("cannot encode %s value: %w", val.Type().FriendlyName(), err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToCty converts a JSON-encodable Go value into a cty value, inferring the
// type from its JSON form.
func ToCty(v any) (cty.Value, error) {
	if v == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to encode %T: %w", v, err)
	}
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return ctyjson.Unmarshal(data, ty)
}
