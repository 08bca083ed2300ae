package store

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrNotFound    = errors.New("registro no encontrado")
	ErrInvalidPath = errors.New("path de registro inválido")
)

// Entry es un hijo de una colección: clave del registro + campos crudos.
type Entry struct {
	Key  string
	Data map[string]interface{}
}

// RecordStore es la interfaz fina sobre la base jerárquica clave-valor.
// Los paths son strings tipo "transportOrders/{id}" o
// "users/{uid}/transportOrders/{id}"; primer segmento = colección,
// segundo = documento, el resto = campo anidado.
//
// Subscribe entrega la colección COMPLETA en cada cambio; el consumidor
// reemplaza su snapshot local entero, sin diffing. La func de release es
// obligatoria en todos los caminos de salida.
type RecordStore interface {
	Get(ctx context.Context, path string) (map[string]interface{}, error)
	List(ctx context.Context, path string) ([]Entry, error)
	Set(ctx context.Context, path string, value interface{}) error
	Update(ctx context.Context, path string, fields map[string]interface{}) error
	Subscribe(ctx context.Context, path string) (<-chan []Entry, func(), error)
}

// recordPath es el resultado de partir un path jerárquico.
type recordPath struct {
	Collection string
	DocID      string
	// FieldPath en notación punto ("transportOrders.TX1"), vacío si el
	// path apunta al documento entero.
	FieldPath string
}

func parsePath(path string) (recordPath, error) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return recordPath{}, ErrInvalidPath
	}
	for _, s := range segs {
		if s == "" {
			return recordPath{}, ErrInvalidPath
		}
	}
	p := recordPath{Collection: segs[0]}
	if len(segs) > 1 {
		p.DocID = segs[1]
	}
	if len(segs) > 2 {
		p.FieldPath = strings.Join(segs[2:], ".")
	}
	return p, nil
}

// Decode rehidrata los campos crudos de un Entry en un struct con tags bson.
func Decode(data map[string]interface{}, out interface{}) error {
	raw, err := bson.Marshal(data)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// Encode aplana un struct con tags bson a los campos crudos del store.
func Encode(v interface{}) (map[string]interface{}, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
