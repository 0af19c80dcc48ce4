package action

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// BaseRef is the parsed FROM directive of a model definition artifact.
type BaseRef struct {
	Ref   string
	Local bool // true when the reference denotes a file, not a registry name
}

// ParseBaseRef reads the first FROM directive from a Modelfile. Comment
// and blank lines before it are skipped; a Modelfile without a FROM
// directive is malformed.
func ParseBaseRef(r io.Reader) (BaseRef, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && strings.EqualFold(fields[0], "FROM") {
			ref := fields[1]
			return BaseRef{Ref: ref, Local: isLocalRef(ref)}, nil
		}
		// First directive must be FROM.
		return BaseRef{}, fmt.Errorf("model definition starts with %q, expected FROM", fields[0])
	}
	if err := scanner.Err(); err != nil {
		return BaseRef{}, err
	}
	return BaseRef{}, fmt.Errorf("model definition has no FROM directive")
}

// isLocalRef distinguishes file references from registry names. Registry
// names look like "llama3" or "user/model:tag"; files carry a path prefix
// or a weights extension.
func isLocalRef(ref string) bool {
	if strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") || strings.HasPrefix(ref, "/") {
		return true
	}
	return strings.HasSuffix(ref, ".gguf") || strings.HasSuffix(ref, ".bin") || strings.HasSuffix(ref, ".safetensors")
}
