package dummydb

import (
	"sort"

	"github.com/trezcool/edutrack/core/record"
)

type recordRepository struct {
	db *DB
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

func NewRecordRepository(db *DB) record.Repository {
	return &recordRepository{db: db}
}

// withNames resolves the student and subject join fields.
func (repo *recordRepository) withNames(rec record.Record) record.Record {
	repo.db.student.RLock()
	if s, ok := repo.db.student.table[rec.StudentID]; ok {
		rec.StudentName = s.Name
	}
	repo.db.student.RUnlock()

	repo.db.subject.RLock()
	if s, ok := repo.db.subject.table[rec.SubjectID]; ok {
		rec.SubjectName = s.Name
	}
	repo.db.subject.RUnlock()
	return rec
}

func (repo *recordRepository) studentClassID(studentID int) (int, bool) {
	repo.db.student.RLock()
	defer repo.db.student.RUnlock()
	if s, ok := repo.db.student.table[studentID]; ok {
		return s.ClassID, true
	}
	return 0, false
}

func (repo *recordRepository) UpsertRecord(rec record.Record) (record.Record, error) {
	repo.db.record.Lock()
	defer repo.db.record.Unlock()

	for _, existing := range repo.db.record.table {
		if existing.StudentID == rec.StudentID && existing.SubjectID == rec.SubjectID {
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
			repo.db.record.table[rec.ID] = &rec
			return rec, nil
		}
	}

	pkCount++
	rec.ID = pkCount
	repo.db.record.table[rec.ID] = &rec
	return rec, nil
}

func (repo *recordRepository) GetRecordByID(id int) (record.Record, error) {
	repo.db.record.RLock()
	defer repo.db.record.RUnlock()

	if rec, ok := repo.db.record.table[id]; ok {
		return repo.withNames(*rec), nil
	}
	return record.Record{}, record.ErrNotFound
}

func (repo *recordRepository) QueryStudentRecords(studentID int) ([]record.Record, error) {
	repo.db.record.RLock()
	defer repo.db.record.RUnlock()

	recs := make([]record.Record, 0)
	for _, rec := range repo.db.record.table {
		if rec.StudentID == studentID {
			recs = append(recs, repo.withNames(*rec))
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID > recs[j].ID })
	return recs, nil
}

func (repo *recordRepository) QueryClassRecords(classID int) ([]record.Record, error) {
	repo.db.record.RLock()
	defer repo.db.record.RUnlock()

	recs := make([]record.Record, 0)
	for _, rec := range repo.db.record.table {
		if cid, ok := repo.studentClassID(rec.StudentID); ok && cid == classID {
			recs = append(recs, repo.withNames(*rec))
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID > recs[j].ID })
	return recs, nil
}

func (repo *recordRepository) QueryAtRiskRecords(classID int) ([]record.Record, error) {
	recs, err := repo.QueryClassRecords(classID)
	if err != nil {
		return nil, err
	}

	atRisk := make([]record.Record, 0)
	for _, rec := range recs {
		if rec.RiskScore >= record.AtRiskThreshold {
			atRisk = append(atRisk, rec)
		}
	}
	sort.Slice(atRisk, func(i, j int) bool { return atRisk[i].RiskScore > atRisk[j].RiskScore })
	return atRisk, nil
}

func (repo *recordRepository) DeleteRecord(id int) error {
	repo.db.record.Lock()
	defer repo.db.record.Unlock()
	delete(repo.db.record.table, id)
	return nil
}

func (repo *recordRepository) GetStudentRoster(studentID int) (record.RosterEntry, error) {
	repo.db.student.RLock()
	s, ok := repo.db.student.table[studentID]
	repo.db.student.RUnlock()
	if !ok {
		return record.RosterEntry{}, record.ErrNotFound
	}

	entry := record.RosterEntry{
		StudentID:   s.ID,
		StudentName: s.Name,
		RollNumber:  s.RollNumber,
		ClassID:     s.ClassID,
	}

	repo.db.class.RLock()
	c, ok := repo.db.class.table[s.ClassID]
	repo.db.class.RUnlock()
	if !ok {
		return record.RosterEntry{}, record.ErrNotFound
	}
	entry.ClassName = c.Name

	repo.db.teacher.RLock()
	t, ok := repo.db.teacher.table[c.TeacherID]
	repo.db.teacher.RUnlock()
	if !ok {
		return record.RosterEntry{}, record.ErrNotFound
	}
	entry.TeacherName = t.Name
	entry.TeacherEmail = t.Email
	return entry, nil
}
