// Package mongo loads records from a MongoDB collection.
//
// Documents use the same field names as the JSON record format (serNo,
// childrenSerNos, spouse.serNo, ...).
package mongo

import (
	"context"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/family"
)

const (
	DefaultDatabase   = "heritage"
	DefaultCollection = "members"
)

// Target is a parsed MongoDB source URI.
type Target struct {
	URI        string // connection string without the collection parameter
	Database   string
	Collection string
}

// ParseURI splits the database from the path and the collection from the
// "collection" query parameter.
func ParseURI(uri string) (Target, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Target{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse mongodb uri")
	}
	q := u.Query()
	t := Target{
		Database:   strings.Trim(u.Path, "/"),
		Collection: q.Get("collection"),
	}
	if t.Database == "" {
		t.Database = DefaultDatabase
	}
	if t.Collection == "" {
		t.Collection = DefaultCollection
	}
	q.Del("collection")
	u.RawQuery = q.Encode()
	t.URI = u.String()
	return t, nil
}

// Source reads one collection.
type Source struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to the server named by uri.
func Open(ctx context.Context, uri string) (*Source, error) {
	t, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(t.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect mongodb")
	}
	return &Source{client: client, coll: client.Database(t.Database).Collection(t.Collection)}, nil
}

func (s *Source) Load(ctx context.Context) (*family.RecordSet, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "serNo", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "query %s", s.coll.Name())
	}
	var members []family.Member
	if err := cur.All(ctx, &members); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", s.coll.Name())
	}
	for i := range members {
		members[i].Gender = family.ParseGender(string(members[i].Gender))
	}
	return family.NewRecordSet(members)
}

func (s *Source) Close() error {
	return s.client.Disconnect(context.Background())
}
