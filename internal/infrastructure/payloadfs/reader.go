// Package payloadfs lee facturas OCR (payloads JSON) desde archivos y directorios locales.
package payloadfs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

// FileError es un archivo que no se pudo leer; no detiene la lectura de los demás.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return e.Path + ": " + e.Err.Error() }

// Read lee path, que puede ser un archivo .json o un directorio. Cada archivo contiene un
// payload o un arreglo de payloads. En directorios se recorren los .json no ocultos en
// orden alfabético. Solo devuelve error si path no existe o no se puede recorrer.
func Read(path string) ([]*ocr.Payload, []FileError, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("payloadfs: %w", err)
	}
	if !info.IsDir() {
		ps, err := ReadFile(path)
		if err != nil {
			return nil, []FileError{{Path: path, Err: err}}, nil
		}
		return ps, nil, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != path && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".json") {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("payloadfs: recorrer %s: %w", path, err)
	}
	sort.Strings(files)

	var payloads []*ocr.Payload
	var failed []FileError
	for _, f := range files {
		ps, err := ReadFile(f)
		if err != nil {
			failed = append(failed, FileError{Path: f, Err: err})
			continue
		}
		payloads = append(payloads, ps...)
	}
	return payloads, failed, nil
}

// ReadFile decodifica un archivo con un payload o un arreglo de payloads.
func ReadFile(path string) ([]*ocr.Payload, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("archivo vacío")
	}
	if trimmed[0] == '[' {
		var ps []*ocr.Payload
		if err := json.Unmarshal(trimmed, &ps); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return ps, nil
	}
	var p ocr.Payload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return []*ocr.Payload{&p}, nil
}
