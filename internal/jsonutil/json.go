package jsonutil

import (
	"encoding/json"
	"fmt"

	"github.com/macflow/macflow/internal/errors"
)

// PrettyJSON marshals a value to an indented JSON string
func PrettyJSON(data interface{}) (string, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %s", errors.ErrInvalidArgument, err.Error())
	}
	return string(out), nil
}
