package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/user"
)

const (
	usersCollection = "users"
	logsCollection  = "dailyLogs"
)

// FirestoreStore keeps profiles at users/{uid} and logs at
// users/{uid}/dailyLogs/{YYYY-MM-DD}.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(ctx context.Context, app *firebase.App) (*FirestoreStore, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) profileRef(userID string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(userID)
}

func (s *FirestoreStore) logsRef(userID string) *firestore.CollectionRef {
	return s.profileRef(userID).Collection(logsCollection)
}

func (s *FirestoreStore) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	snap, err := s.profileRef(userID).Get(ctx)
	if err != nil {
		return nil, classifyFirestore(err)
	}

	p := &user.Profile{}
	if err := snap.DataTo(p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p, nil
}

func (s *FirestoreStore) UpdateProfile(ctx context.Context, userID string, fn ProfileMutator) (*user.Profile, error) {
	ref := s.profileRef(userID)

	var result user.Profile
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		p := user.Profile{}
		exists := true

		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
			exists = false
		case err != nil:
			return err
		default:
			if err := snap.DataTo(&p); err != nil {
				return fmt.Errorf("failed to decode profile: %w", err)
			}
		}

		if err := fn(&p, exists); err != nil {
			return err
		}
		result = p
		fields := profileFields(&p)
		return tx.Set(ref, fields, firestore.Merge(fieldPaths(fields)...))
	})
	if err != nil {
		return nil, classifyFirestore(err)
	}
	return &result, nil
}

// profileFields maps every field Profile owns to its stored value. Unset
// optional fields map to firestore.Delete. Fields written by other clients are
// not listed and so survive a merge.
func profileFields(p *user.Profile) map[string]interface{} {
	fields := map[string]interface{}{
		"registeredDate": p.RegisteredDate,
		"achievements":   map[string]interface{}{"unlockedMilestones": p.Achievements.UnlockedMilestones},
		"createdAt":      p.CreatedAt,
		"updatedAt":      p.UpdatedAt,
	}
	setOrDelete(fields, "dailyGoal", p.DailyGoal != nil, func() interface{} { return *p.DailyGoal })
	setOrDelete(fields, "avgDrinkCost", p.AvgDrinkCost != nil, func() interface{} { return *p.AvgDrinkCost })
	setOrDelete(fields, "avgDrinkCals", p.AvgDrinkCals != nil, func() interface{} { return *p.AvgDrinkCals })
	setOrDelete(fields, "typicalWeek", len(p.TypicalWeek) > 0, func() interface{} { return p.TypicalWeek })
	setOrDelete(fields, "weeklyTargets", len(p.WeeklyTargets) > 0, func() interface{} { return p.WeeklyTargets })
	setOrDelete(fields, "weeklyPlanWeekStart", p.WeeklyPlanWeekStart != "", func() interface{} { return p.WeeklyPlanWeekStart })
	setOrDelete(fields, "fcmTokens", len(p.FCMTokens) > 0, func() interface{} { return p.FCMTokens })
	return fields
}

func setOrDelete(fields map[string]interface{}, key string, set bool, value func() interface{}) {
	if set {
		fields[key] = value()
		return
	}
	fields[key] = firestore.Delete
}

func fieldPaths(fields map[string]interface{}) []firestore.FieldPath {
	paths := make([]firestore.FieldPath, 0, len(fields))
	for key := range fields {
		paths = append(paths, firestore.FieldPath{key})
	}
	return paths
}

func (s *FirestoreStore) GetLog(ctx context.Context, userID, date string) (*dailylog.DailyLog, error) {
	snap, err := s.logsRef(userID).Doc(date).Get(ctx)
	if err != nil {
		return nil, classifyFirestore(err)
	}

	l := &dailylog.DailyLog{}
	if err := snap.DataTo(l); err != nil {
		return nil, fmt.Errorf("failed to decode daily log: %w", err)
	}
	l.Date = date
	return l, nil
}

func (s *FirestoreStore) ListLogs(ctx context.Context, userID string, q dailylog.Query) ([]dailylog.DailyLog, error) {
	query := s.logsRef(userID).Query
	if q.From != "" {
		query = query.Where("date", ">=", q.From)
	}
	if q.To != "" {
		query = query.Where("date", "<=", q.To)
	}

	dir := firestore.Asc
	if q.Descending {
		dir = firestore.Desc
	}
	query = query.OrderBy("date", dir)
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	logs := []dailylog.DailyLog{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, classifyFirestore(fmt.Errorf("failed to list daily logs: %w", err))
		}

		var l dailylog.DailyLog
		if err := snap.DataTo(&l); err != nil {
			return nil, fmt.Errorf("failed to decode daily log %s: %w", snap.Ref.ID, err)
		}
		l.Date = snap.Ref.ID
		logs = append(logs, l)
	}
	return logs, nil
}

func (s *FirestoreStore) UpdateLog(ctx context.Context, userID, date string, fn LogMutator) (*dailylog.DailyLog, error) {
	ref := s.logsRef(userID).Doc(date)

	var result dailylog.DailyLog
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		l := dailylog.DailyLog{}
		exists := true

		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
			exists = false
		case err != nil:
			return err
		default:
			if err := snap.DataTo(&l); err != nil {
				return fmt.Errorf("failed to decode daily log: %w", err)
			}
		}
		l.Date = date

		if err := fn(&l, exists); err != nil {
			return err
		}
		result = l
		return tx.Set(ref, &l)
	})
	if err != nil {
		return nil, classifyFirestore(err)
	}
	return &result, nil
}

func (s *FirestoreStore) DeleteLog(ctx context.Context, userID, date string) error {
	ref := s.logsRef(userID).Doc(date)
	if _, err := ref.Get(ctx); err != nil {
		return classifyFirestore(err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return classifyFirestore(fmt.Errorf("failed to delete daily log: %w", err))
	}
	return nil
}

func (s *FirestoreStore) Ping(ctx context.Context) error {
	iter := s.client.Collection(usersCollection).Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return classifyFirestore(err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// classifyFirestore maps gRPC status codes onto the store error kinds and
// passes any other error (including mutator errors) through untouched.
func classifyFirestore(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case codes.Aborted:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
