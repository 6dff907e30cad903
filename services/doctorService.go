package services

import (
	"TeleClinic/models"
	"TeleClinic/repositories"
	"context"
)

type DoctorService struct {
	repository *repositories.DoctorRepository
}

func NewDoctorService(repository *repositories.DoctorRepository) *DoctorService {
	return &DoctorService{repository: repository}
}

func (s *DoctorService) Create(ctx context.Context, doctor *models.Doctor) error {
	return s.repository.Create(ctx, doctor)
}

func (s *DoctorService) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *DoctorService) GetByUserID(ctx context.Context, userID int64) (*models.Doctor, error) {
	return s.repository.GetByUserID(ctx, userID)
}

func (s *DoctorService) GetAll(ctx context.Context) ([]models.Doctor, error) {
	return s.repository.GetAll(ctx)
}

// Directory is the patient-facing view: available doctors only, optionally
// filtered by specialty.
func (s *DoctorService) Directory(ctx context.Context, specialty string) ([]models.Doctor, error) {
	doctors, err := s.repository.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := doctors[:0]
	for _, d := range doctors {
		if !d.Available {
			continue
		}
		if specialty != "" && d.Specialty != specialty {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *DoctorService) Update(ctx context.Context, doctor *models.Doctor) error {
	return s.repository.Update(ctx, doctor)
}

func (s *DoctorService) SetAvailability(ctx context.Context, id string, available bool) error {
	return s.repository.SetAvailability(ctx, id, available)
}

func (s *DoctorService) Delete(ctx context.Context, id string) error {
	return s.repository.Delete(ctx, id)
}
