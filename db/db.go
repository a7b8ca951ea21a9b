// Package db stores a summary of every performance in DynamoDB.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/google/uuid"
	"github.com/jsphweid/mpusynth/constants"
	"github.com/jsphweid/mpusynth/model"
)

const (
	// DynamoDB caps a BatchGetItem at 100 keys.
	maxBatch = 100
	// attempts at keys a throttled batch hands back
	maxUnprocessedRetries = 5
)

var (
	ErrTooManyKeys = errors.New("too many session ids for one batch")
	ErrUnprocessed = errors.New("session ids left unprocessed")
)

type Store struct {
	client dynamodbiface.DynamoDBAPI
	table  string
	// backoff before the first retry of unprocessed keys; doubles each time
	backoff time.Duration
}

func New(endpoint string) (*Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb session: %w", err)
	}
	return NewWithClient(dynamodb.New(sess)), nil
}

func NewWithClient(client dynamodbiface.DynamoDBAPI) *Store {
	return &Store{client: client, table: constants.SessionsTable, backoff: 50 * time.Millisecond}
}

func sessionItem(s model.Session) map[string]*dynamodb.AttributeValue {
	n := func(v int64) *dynamodb.AttributeValue {
		return &dynamodb.AttributeValue{N: aws.String(strconv.FormatInt(v, 10))}
	}
	return map[string]*dynamodb.AttributeValue{
		"PK":          {S: aws.String(s.ID.String())},
		"Started":     {S: aws.String(s.Started.UTC().Format(time.RFC3339Nano))},
		"Ended":       {S: aws.String(s.Ended.UTC().Format(time.RFC3339Nano))},
		"Seed":        n(s.Seed),
		"MelodyNotes": n(int64(s.MelodyNotes)),
		"BassNotes":   n(int64(s.BassNotes)),
	}
}

func parseSession(item map[string]*dynamodb.AttributeValue) (model.Session, error) {
	var s model.Session
	str := func(key string) (string, error) {
		v, ok := item[key]
		if !ok || v.S == nil {
			return "", fmt.Errorf("session item missing %s", key)
		}
		return *v.S, nil
	}
	num := func(key string) (int64, error) {
		v, ok := item[key]
		if !ok || v.N == nil {
			return 0, fmt.Errorf("session item missing %s", key)
		}
		return strconv.ParseInt(*v.N, 10, 64)
	}

	pk, err := str("PK")
	if err != nil {
		return s, err
	}
	if s.ID, err = uuid.Parse(pk); err != nil {
		return s, fmt.Errorf("session id: %w", err)
	}
	for key, dst := range map[string]*time.Time{"Started": &s.Started, "Ended": &s.Ended} {
		v, err := str(key)
		if err != nil {
			return s, err
		}
		if *dst, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return s, fmt.Errorf("session %s: %w", key, err)
		}
	}
	if s.Seed, err = num("Seed"); err != nil {
		return s, err
	}
	melody, err := num("MelodyNotes")
	if err != nil {
		return s, err
	}
	bass, err := num("BassNotes")
	if err != nil {
		return s, err
	}
	s.MelodyNotes, s.BassNotes = int(melody), int(bass)
	return s, nil
}

func (s *Store) SaveSession(ctx context.Context, sess model.Session) error {
	_, err := s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      sessionItem(sess),
	})
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

// GetSessions looks up sessions by id. Unknown ids are absent from the
// result; repeated ids are looked up once.
func (s *Store) GetSessions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Session, error) {
	var keys []map[string]*dynamodb.AttributeValue
	seen := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id.String())},
		})
	}
	if len(keys) > maxBatch {
		return nil, fmt.Errorf("%w: %d", ErrTooManyKeys, len(keys))
	}
	res := make(map[uuid.UUID]model.Session)
	if len(keys) == 0 {
		return res, nil
	}

	pending := &dynamodb.KeysAndAttributes{Keys: keys}
	for attempt := 0; ; attempt++ {
		out, err := s.client.BatchGetItemWithContext(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]*dynamodb.KeysAndAttributes{
				s.table: pending,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("get sessions: %w", err)
		}

		for _, item := range out.Responses[s.table] {
			sess, err := parseSession(item)
			if err != nil {
				return nil, err
			}
			res[sess.ID] = sess
		}

		next := out.UnprocessedKeys[s.table]
		if next == nil || len(next.Keys) == 0 {
			return res, nil
		}
		if attempt == maxUnprocessedRetries {
			return nil, fmt.Errorf("%w: %d after %d retries", ErrUnprocessed, len(next.Keys), attempt)
		}
		slog.Debug("db: retrying unprocessed keys", "keys", len(next.Keys), "attempt", attempt+1)
		if err := wait(ctx, s.backoff<<attempt); err != nil {
			return nil, err
		}
		pending = next
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
