package request

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// Request is one page job: Kind names the page, Args carry its parameters.
type Request struct {
	ID    string            `json:"id"`
	Kind  string            `json:"kind"`
	Args  map[string]string `json:"args,omitempty"`
	Retry int               `json:"retry"`
}

func New(kind string, args map[string]string) *Request {
	if args == nil {
		args = map[string]string{}
	}
	return &Request{ID: uuid.NewString(), Kind: kind, Args: args}
}

func (r *Request) Arg(name string) string {
	return r.Args[name]
}

// Int returns the integer argument name, or def when it is missing or malformed.
func (r *Request) Int(name string, def int) int {
	v, ok := r.Args[name]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (r *Request) Bool(name string) bool {
	b, _ := strconv.ParseBool(r.Args[name])
	return b
}

// Hash identifies the job by kind and arguments, ignoring ID and Retry.
// With hashFields only those arguments take part.
func (r *Request) Hash(hashFields ...string) string {
	if len(hashFields) == 0 {
		for k := range r.Args {
			hashFields = append(hashFields, k)
		}
		sort.Strings(hashFields)
	}

	components := make([][]byte, 1+2*len(hashFields))
	components[0] = []byte(r.Kind)
	for i, field := range hashFields {
		components[2*i+1] = []byte(field)
		components[2*i+2] = []byte(r.Args[field])
	}

	hash := md5.Sum(bytes.Join(components, []byte(":")))
	return hex.EncodeToString(hash[:])
}
