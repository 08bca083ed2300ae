package store

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implementa RecordStore sobre MongoDB. La jerarquía se mapea
// directo: colección/documento/campo.anidado, con updates parciales vía
// notación punto. Las suscripciones usan change streams y reenvían el
// snapshot completo de la colección en cada evento, igual que el feed en
// vivo de la base original.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Get(ctx context.Context, path string) (map[string]interface{}, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	if p.DocID == "" {
		return nil, ErrInvalidPath
	}

	var doc bson.M
	err = s.db.Collection(p.Collection).FindOne(ctx, bson.M{"_id": p.DocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	delete(doc, "_id")

	if p.FieldPath == "" {
		return map[string]interface{}(doc), nil
	}

	nested, ok := navigate(doc, p.FieldPath)
	if !ok {
		return nil, ErrNotFound
	}
	return asMap(nested)
}

func (s *MongoStore) List(ctx context.Context, path string) ([]Entry, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	// Colección entera: orden natural de inserción, el consumidor decide
	// si la invierte.
	if p.DocID == "" {
		cur, err := s.db.Collection(p.Collection).Find(ctx, bson.M{})
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)

		var out []Entry
		for cur.Next(ctx) {
			var doc bson.M
			if err := cur.Decode(&doc); err != nil {
				return nil, err
			}
			key, _ := doc["_id"].(string)
			delete(doc, "_id")
			out = append(out, Entry{Key: key, Data: map[string]interface{}(doc)})
		}
		return out, cur.Err()
	}

	// Rama anidada dentro de un documento (p.ej. transacciones de una
	// pathology): se lee como bson.D para conservar el orden de inserción.
	var doc bson.D
	err = s.db.Collection(p.Collection).FindOne(ctx, bson.M{"_id": p.DocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	branch, ok := navigate(doc, p.FieldPath)
	if !ok {
		// Rama ausente = colección vacía, no error.
		return nil, nil
	}
	return childEntries(branch)
}

func (s *MongoStore) Set(ctx context.Context, path string, value interface{}) error {
	p, err := parsePath(path)
	if err != nil {
		return err
	}
	if p.DocID == "" {
		return ErrInvalidPath
	}

	var update bson.M
	if p.FieldPath != "" {
		update = bson.M{"$set": bson.M{p.FieldPath: value}}
	} else {
		fields, err := Encode(value)
		if err != nil {
			return err
		}
		update = bson.M{"$set": fields}
	}

	opts := options.Update().SetUpsert(true)
	_, err = s.db.Collection(p.Collection).UpdateOne(ctx, bson.M{"_id": p.DocID}, update, opts)
	return err
}

func (s *MongoStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	p, err := parsePath(path)
	if err != nil {
		return err
	}
	if p.DocID == "" {
		return ErrInvalidPath
	}

	set := bson.M{}
	for k, v := range fields {
		if p.FieldPath != "" {
			k = p.FieldPath + "." + k
		}
		set[k] = v
	}

	opts := options.Update().SetUpsert(true)
	_, err = s.db.Collection(p.Collection).UpdateOne(ctx, bson.M{"_id": p.DocID}, bson.M{"$set": set}, opts)
	return err
}

func (s *MongoStore) Subscribe(ctx context.Context, path string) (<-chan []Entry, func(), error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, nil, err
	}

	cctx, cancel := context.WithCancel(ctx)
	cs, err := s.db.Collection(p.Collection).Watch(cctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, nil, err
	}

	ch := make(chan []Entry, 1)
	push := func() {
		snap, err := s.List(cctx, path)
		if err != nil {
			if cctx.Err() == nil {
				log.WithField("prefix", "store").WithField("path", path).WithError(err).Error("fail to refresh snapshot")
			}
			return
		}
		// Solo interesa el snapshot más reciente: si hay uno pendiente
		// sin consumir, se descarta.
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}

	go func() {
		defer close(ch)
		defer cs.Close(context.Background())
		push()
		for cs.Next(cctx) {
			push()
		}
	}()

	log.WithField("prefix", "store").WithField("path", path).Debug("subscription opened")
	return ch, cancel, nil
}

// navigate baja por un documento decodificado siguiendo un field path en
// notación punto. El driver entrega documentos anidados como bson.D o
// bson.M según el tipo destino, así que se aceptan ambos.
func navigate(v interface{}, fieldPath string) (interface{}, bool) {
	cur := v
	for _, seg := range splitDots(fieldPath) {
		var next interface{}
		found := false
		switch doc := cur.(type) {
		case bson.M:
			next, found = doc[seg]
		case map[string]interface{}:
			next, found = doc[seg]
		case bson.D:
			for _, e := range doc {
				if e.Key == seg {
					next, found = e.Value, true
					break
				}
			}
		}
		if !found {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func splitDots(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func asMap(v interface{}) (map[string]interface{}, error) {
	switch doc := v.(type) {
	case bson.M:
		return map[string]interface{}(doc), nil
	case map[string]interface{}:
		return doc, nil
	case bson.D:
		m := make(map[string]interface{}, len(doc))
		for _, e := range doc {
			m[e.Key] = e.Value
		}
		return m, nil
	}
	return nil, ErrNotFound
}

func childEntries(v interface{}) ([]Entry, error) {
	switch doc := v.(type) {
	case bson.D:
		out := make([]Entry, 0, len(doc))
		for _, e := range doc {
			data, err := asMap(e.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, Entry{Key: e.Key, Data: data})
		}
		return out, nil
	case bson.M, map[string]interface{}:
		m, _ := asMap(doc)
		out := make([]Entry, 0, len(m))
		for k, child := range m {
			data, err := asMap(child)
			if err != nil {
				return nil, err
			}
			out = append(out, Entry{Key: k, Data: data})
		}
		return out, nil
	}
	return nil, ErrNotFound
}
