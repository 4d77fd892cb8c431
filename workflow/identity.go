package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/healinghands/smart-health-api/model"
	"github.com/healinghands/smart-health-api/util"
	"gorm.io/gorm"
)

// Default demo credentials assigned when registration omits a password,
// mirroring the product's fixed shared passwords.
const (
	DefaultDoctorPassword  = "password123"
	DefaultPatientPassword = "patient123"
)

// DoctorInput carries the attributes collected by doctor registration.
type DoctorInput struct {
	FullName       string
	Age            int
	DateOfBirth    string
	Gender         string
	PhoneNumber    string
	Password       string
	LicenseNumber  string
	Specialization string
}

// PatientInput carries the attributes collected by a patient application.
type PatientInput struct {
	FullName          string
	Age               int
	DateOfBirth       string
	Gender            string
	PhoneNumber       string
	Password          string
	MedicalConditions string
}

func hashCredential(plain string) (hash, salt string, err error) {
	salt, err = util.GenerateSalt()
	if err != nil {
		return "", "", err
	}
	hash, err = util.HashPasswordArgon2(plain, salt)
	if err != nil {
		return "", "", err
	}
	return hash, salt, nil
}

// RegisterDoctor stores a new doctor with a system-assigned code. Doctors
// are usable immediately; there is no approval gate on providers.
func RegisterDoctor(db *gorm.DB, input DoctorInput) (*model.Doctor, error) {
	if input.Password == "" {
		input.Password = DefaultDoctorPassword
	}
	hash, salt, err := hashCredential(input.Password)
	if err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		FullName:       util.NormalizeName(input.FullName),
		Age:            input.Age,
		DateOfBirth:    input.DateOfBirth,
		Gender:         input.Gender,
		PhoneNumber:    input.PhoneNumber,
		Password:       hash,
		PasswordSalt:   salt,
		LicenseNumber:  input.LicenseNumber,
		Specialization: input.Specialization,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		code, err := model.NextActorCode(tx, model.DoctorCodePrefix)
		if err != nil {
			return err
		}
		doctor.Code = code
		return tx.Create(doctor).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register doctor: %w", err)
	}
	return doctor, nil
}

// RegisterPatient stores a new patient application with a system-assigned
// code, status pending and the submission timestamp set.
func RegisterPatient(db *gorm.DB, input PatientInput) (*model.Patient, error) {
	if input.Password == "" {
		input.Password = DefaultPatientPassword
	}
	if input.MedicalConditions == "" {
		input.MedicalConditions = "None reported"
	}
	hash, salt, err := hashCredential(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patient := &model.Patient{
		FullName:          util.NormalizeName(input.FullName),
		Age:               input.Age,
		DateOfBirth:       input.DateOfBirth,
		Gender:            input.Gender,
		PhoneNumber:       input.PhoneNumber,
		Password:          hash,
		PasswordSalt:      salt,
		MedicalConditions: input.MedicalConditions,
		Status:            model.ApprovalPending,
		SubmittedAt:       &now,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		code, err := model.NextActorCode(tx, model.PatientCodePrefix)
		if err != nil {
			return err
		}
		patient.Code = code
		return tx.Create(patient).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register patient: %w", err)
	}
	return patient, nil
}

// FindDoctorByCode looks a doctor up by system-assigned code.
func FindDoctorByCode(db *gorm.DB, code string) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := db.Where("code = ?", code).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

// FindPatientByCode looks a patient up by system-assigned code.
func FindPatientByCode(db *gorm.DB, code string) (*model.Patient, error) {
	var patient model.Patient
	if err := db.Where("code = ?", code).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// FindDoctor looks a doctor up by primary key.
func FindDoctor(db *gorm.DB, id uint) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := db.First(&doctor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

// FindPatient looks a patient up by primary key.
func FindPatient(db *gorm.DB, id uint) (*model.Patient, error) {
	var patient model.Patient
	if err := db.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// Authenticate performs the role-filtered credential check and, for
// patients, the approval gate. On success it returns the actor identity the
// session will carry. No side effects.
func Authenticate(db *gorm.DB, role, code, password string) (Actor, error) {
	switch role {
	case model.RoleDoctor:
		doctor, err := FindDoctorByCode(db, code)
		if err != nil {
			return Actor{}, err
		}
		match, err := util.VerifyPassword(password, doctor.Password, doctor.PasswordSalt)
		if err != nil {
			return Actor{}, err
		}
		if !match {
			return Actor{}, ErrInvalidCredential
		}
		return Actor{ID: doctor.ID, Role: model.RoleDoctor, Name: doctor.FullName}, nil

	case model.RolePatient:
		patient, err := FindPatientByCode(db, code)
		if err != nil {
			return Actor{}, err
		}
		match, err := util.VerifyPassword(password, patient.Password, patient.PasswordSalt)
		if err != nil {
			return Actor{}, err
		}
		if !match {
			return Actor{}, ErrInvalidCredential
		}
		// Only approved patients may authenticate.
		switch patient.Status {
		case model.ApprovalPending:
			return Actor{}, ErrApprovalPending
		case model.ApprovalRejected:
			return Actor{}, ErrApprovalRejected
		}
		return Actor{ID: patient.ID, Role: model.RolePatient, Name: patient.FullName}, nil
	}

	return Actor{}, ErrNotFound
}
