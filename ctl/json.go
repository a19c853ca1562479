package ctl

import (
	"io"

	"github.com/juju/errors"
	"github.com/ugorji/go/codec"
)

// jsonPPHandle encodes json with line breaks and indents,
// map keys are serialized in a canonical order
var jsonPPHandle codec.JsonHandle

func init() {
	jsonPPHandle.BasicHandle.EncodeOptions.Canonical = true
	jsonPPHandle.Indent = -1
}

// EncodeJSON returns the value encoded to pretty printed json
func EncodeJSON(value interface{}) ([]byte, error) {
	var b []byte
	err := codec.NewEncoderBytes(&b, &jsonPPHandle).Encode(value)
	return b, err
}

// WriteJSON prints the value as json to out
func WriteJSON(out io.Writer, value interface{}) error {
	json, err := EncodeJSON(value)
	if err != nil {
		return errors.Annotate(err, "failed to encode")
	}
	json = append(json, '\n')
	if _, err = out.Write(json); err != nil {
		return errors.Trace(err)
	}
	return nil
}
