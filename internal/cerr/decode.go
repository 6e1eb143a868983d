package cerr

import (
	"encoding/json"
	"net/http"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads the request body into v. Decoding failures come back as
// InvalidArgument errors.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return NewError(InvalidArgument, "invalid json: "+err.Error(), err)
	}
	return nil
}
