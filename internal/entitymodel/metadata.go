package entitymodel

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

var (
	versionOnce sync.Once
	version     string
)

// Version returns a fingerprint of the registered schemas: every collection,
// field name, kind and required flag in declaration order. It changes whenever
// the wire or column layout does.
func Version() string {
	versionOnce.Do(func() {
		version = fingerprint(All()...)
	})
	return version
}

func fingerprint(schemas ...*Schema) string {
	h := sha256.New()
	for _, s := range schemas {
		fmt.Fprintf(h, "%s\n", s.Collection)
		for _, f := range s.Fields {
			fmt.Fprintf(h, "\t%s:%d:%t\n", f.Name, f.Kind, f.Required)
		}
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil))[:16]
}
