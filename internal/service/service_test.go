package service

import (
	"context"
	"sort"

	"github.com/iliyamo/semester-scrapbook/internal/model"
	"github.com/iliyamo/semester-scrapbook/internal/repository"
)

// --- fakes shared across the service tests ---

type fakeSemesters struct {
	byID      map[string]model.Semester
	access    *fakeAccess // creator grants land here, like the real transaction
	createErr error
}

func newFakeSemesters(sems ...model.Semester) *fakeSemesters {
	f := &fakeSemesters{byID: make(map[string]model.Semester)}
	for _, s := range sems {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeSemesters) Get(_ context.Context, id string) (model.Semester, error) {
	s, ok := f.byID[id]
	if !ok {
		return model.Semester{}, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeSemesters) CreateWithAccess(ctx context.Context, sem *model.Semester, rec *model.AccessRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[sem.ID] = *sem
	if f.access != nil {
		if _, err := f.access.Grant(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

type fakeAccess struct {
	recs     map[string]model.AccessRecord
	grantErr error
}

func newFakeAccess(recs ...model.AccessRecord) *fakeAccess {
	f := &fakeAccess{recs: make(map[string]model.AccessRecord)}
	for _, r := range recs {
		f.recs[model.AccessKey(r.SemesterID, r.UserID)] = r
	}
	return f
}

func (f *fakeAccess) Grant(_ context.Context, rec *model.AccessRecord) (bool, error) {
	if f.grantErr != nil {
		return false, f.grantErr
	}
	key := model.AccessKey(rec.SemesterID, rec.UserID)
	if _, ok := f.recs[key]; ok {
		return false, nil
	}
	rec.ID = key
	f.recs[key] = *rec
	return true, nil
}

func (f *fakeAccess) Get(_ context.Context, semesterID, userID string) (model.AccessRecord, error) {
	rec, ok := f.recs[model.AccessKey(semesterID, userID)]
	if !ok {
		return model.AccessRecord{}, repository.ErrNotFound
	}
	return rec, nil
}

func (f *fakeAccess) ListByUser(_ context.Context, userID string) ([]model.AccessRecord, error) {
	var out []model.AccessRecord
	for _, rec := range f.recs {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SemesterID < out[j].SemesterID })
	return out, nil
}

func (f *fakeAccess) ListBySemester(_ context.Context, semesterID string) ([]model.AccessRecord, error) {
	var out []model.AccessRecord
	for _, rec := range f.recs {
		if rec.SemesterID == semesterID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakeAccess) CountBySemester(_ context.Context, semesterID string) (int, error) {
	n := 0
	for _, rec := range f.recs {
		if rec.SemesterID == semesterID {
			n++
		}
	}
	return n, nil
}

type fakeJoinLog struct {
	entries []model.JoinLogEntry
	err     error
}

func (f *fakeJoinLog) Append(_ context.Context, e model.JoinLogEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}
