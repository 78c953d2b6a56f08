package main

import (
	"encoding/json"
	"io"
	"os"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// readJSONSource returns the inline JSON when set, otherwise the file
// contents, otherwise nil.
func readJSONSource(inline, path string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if path != "" {
		return os.ReadFile(path)
	}
	return nil, nil
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", JSONIndent)
	if err != nil {
		return newCLIError(ExitCodeError, ErrMsgJSONMarshalFailed, err)
	}
	data = append(data, FmtNewline...)
	_, err = w.Write(data)
	return err
}
