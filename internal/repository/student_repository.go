package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/Freeeeeet/tuition_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const studentColumns = `id, name, cefr, group_name, lesson_day_1, lesson_day_2, package_size, start_date, end_date, status, created_at`

// StudentRepository управляет учениками в базе данных
type StudentRepository struct {
	*base.Repository
}

// NewStudentRepository создаёт новый репозиторий учеников
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{Repository: base.NewRepository(pool)}
}

// CreateStudent создаёт ученика и, если first != nil, его первый пакет с уроками в одной транзакции
func (r *StudentRepository) CreateStudent(ctx context.Context, s *model.Student, first *model.NewPackage) (*model.Package, error) {
	query := `
		INSERT INTO students (name, cefr, group_name, lesson_day_1, lesson_day_2, package_size, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	var pkg *model.Package
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(
			ctx,
			query,
			s.Name,
			s.CEFR,
			s.Group,
			int(s.LessonDay1),
			weekdayArg(s.LessonDay2),
			s.PackageSize,
			s.StartDate.Time(),
			base.DateArg(s.EndDate),
			string(s.Status),
		).Scan(&s.ID, &s.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert student: %w", err)
		}

		if first == nil {
			return nil
		}
		pkg, err = insertPackageTx(ctx, tx, s.ID, *first)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	return pkg, nil
}

// GetStudent получает ученика по ID
func (r *StudentRepository) GetStudent(ctx context.Context, id int64) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	s, err := scanStudent(r.Pool().QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}

	return s, nil
}

// ListStudents получает всех учеников, отсортированных по ID
func (r *StudentRepository) ListStudents(ctx context.Context) ([]*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY id`

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}

	return students, rows.Err()
}

// UpdateStudent обновляет данные ученика
func (r *StudentRepository) UpdateStudent(ctx context.Context, s *model.Student) error {
	query := `
		UPDATE students
		SET name = $2, cefr = $3, group_name = $4, lesson_day_1 = $5, lesson_day_2 = $6,
		    package_size = $7, start_date = $8, end_date = $9, status = $10
		WHERE id = $1
	`

	affected, err := r.ExecAffected(
		ctx,
		query,
		s.ID,
		s.Name,
		s.CEFR,
		s.Group,
		int(s.LessonDay1),
		weekdayArg(s.LessonDay2),
		s.PackageSize,
		s.StartDate.Time(),
		base.DateArg(s.EndDate),
		string(s.Status),
	)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if affected == 0 {
		return errs.NewNotFoundError("student", s.ID)
	}

	return nil
}

// DeleteStudent удаляет ученика вместе с пакетами и уроками (ON DELETE CASCADE)
func (r *StudentRepository) DeleteStudent(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return errs.NewNotFoundError("student", id)
	}

	return nil
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	var (
		s         model.Student
		day1      int
		day2      *int
		startDate time.Time
		endDate   *time.Time
		status    string
	)
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.CEFR,
		&s.Group,
		&day1,
		&day2,
		&s.PackageSize,
		&startDate,
		&endDate,
		&status,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.LessonDay1 = calendar.Weekday(day1)
	if day2 != nil {
		d := calendar.Weekday(*day2)
		s.LessonDay2 = &d
	}
	s.StartDate = calendar.FromTime(startDate)
	s.EndDate = base.DateFrom(endDate)
	s.Status = model.StudentStatus(status)

	return &s, nil
}

func weekdayArg(w *calendar.Weekday) interface{} {
	if w == nil {
		return nil
	}
	return int(*w)
}
