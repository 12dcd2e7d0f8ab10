package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"ats-gateway/internal/ats"
	"ats-gateway/internal/pkg/jsonx"
	"ats-gateway/internal/resource"
)

var ErrEmptyPayload = errors.New("payload is empty")

type failureOutput struct {
	Kind    string `json:"kind"`
	Method  string `json:"method,omitempty"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
	Body    any    `json:"body,omitempty"`
}

type resultOutput struct {
	Status int            `json:"status"`
	Value  any            `json:"value,omitempty"`
	Error  *failureOutput `json:"error,omitempty"`
}

// printResult writes res as indented JSON and returns the failure, if any, so
// the process exits non-zero.
func printResult[R any](w io.Writer, res resource.Result[R]) error {
	out := resultOutput{Status: res.Status}
	if f := res.Failure; f != nil {
		out.Error = &failureOutput{
			Kind:    f.Kind.String(),
			Method:  f.Method,
			URL:     f.URL,
			Message: f.Message,
		}
		if f.Kind == resource.FailureServer {
			out.Error.Body = f.Payload()
		}
	} else {
		out.Value = res.Value
	}

	if err := writeJSON(w, out); err != nil {
		return err
	}
	if res.Failure != nil {
		return res.Failure
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// readPayload decodes --data: inline JSON, "@path" for a file, or "-" for stdin.
func readPayload(cmd *cobra.Command, data string) (ats.Record, error) {
	data = strings.TrimSpace(data)
	var raw []byte
	switch {
	case data == "":
		return nil, ErrEmptyPayload
	case data == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		raw = b
	case strings.HasPrefix(data, "@"):
		b, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, err
		}
		raw = b
	default:
		raw = []byte(data)
	}

	var rec ats.Record
	if err := jsonx.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if len(rec) == 0 {
		return nil, ErrEmptyPayload
	}
	return rec, nil
}
