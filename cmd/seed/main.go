package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/medsched/appointment-core/internal/catalog"
	"github.com/medsched/appointment-core/internal/config"
	"github.com/medsched/appointment-core/internal/notification"
	"github.com/medsched/appointment-core/internal/scheduling"
	"github.com/medsched/appointment-core/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := store.Open(ctx, store.Options{
		Backend:       cfg.StoreBackend,
		PostgresDSN:   cfg.PostgresDSN,
		RedisAddr:     cfg.RedisAddr,
		RedisUsername: cfg.RedisUsername,
		RedisPassword: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatalf("connect store: %v", err)
	}
	defer backend.Close()

	gofakeit.Seed(time.Now().UnixNano())

	patients, err := seedUsers(ctx, backend.Store, cfg.KeyPrefix, 20)
	if err != nil {
		log.Fatalf("seed users: %v", err)
	}
	if err := seedAppointments(ctx, backend.Store, cfg.KeyPrefix, patients, 40); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

// seedUsers writes the users collection: one admin, one account per catalog
// doctor, and the requested number of patients. Returns the patients for
// appointment seeding.
func seedUsers(ctx context.Context, st store.Store, keyPrefix string, patientCount int) ([]scheduling.User, error) {
	log.Printf("seeding %d patients plus doctors and admin", patientCount)

	users := []scheduling.User{
		{ID: uuid.NewString(), Name: "Admin", Email: "admin@clinic.example", Role: scheduling.RoleAdmin},
	}

	for _, doc := range catalog.Doctors() {
		users = append(users, scheduling.User{
			ID:    doc.ID,
			Name:  doc.Name,
			Email: gofakeit.Email(),
			Role:  scheduling.RoleDoctor,
		})
	}

	patients := make([]scheduling.User, 0, patientCount)
	for i := 0; i < patientCount; i++ {
		p := scheduling.User{
			ID:    uuid.NewString(),
			Name:  gofakeit.Name(),
			Email: gofakeit.Email(),
			Role:  scheduling.RolePatient,
		}
		patients = append(patients, p)
		users = append(users, p)
	}

	raw, err := json.Marshal(users)
	if err != nil {
		return nil, err
	}
	if err := st.Set(ctx, keyPrefix+"users", raw); err != nil {
		return nil, err
	}

	log.Println("users seeded")
	return patients, nil
}

// seedAppointments books appointments through the repository so ids, status
// and doctor notifications behave exactly as production writes do.
func seedAppointments(ctx context.Context, st store.Store, keyPrefix string, patients []scheduling.User, count int) error {
	log.Printf("seeding %d appointments", count)

	notifications := notification.NewService(st, keyPrefix, nil)
	repo := scheduling.NewRepository(st, notifications, keyPrefix, nil)
	doctors := catalog.Doctors()

	for i := 0; i < count; i++ {
		patient := patients[gofakeit.Number(0, len(patients)-1)]
		doctor := doctors[gofakeit.Number(0, len(doctors)-1)]

		date := gofakeit.DateRange(time.Now(), time.Now().AddDate(0, 2, 0))
		input := scheduling.CreateAppointmentInput{
			DoctorID: doctor.ID,
			Date:     date.Format("02/01/2006"),
			Time:     gofakeit.RandomString([]string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}),
		}

		appt, err := repo.Create(ctx, scheduling.CurrentUser{
			ID:   patient.ID,
			Name: patient.Name,
			Role: scheduling.RolePatient,
		}, input)
		if err != nil {
			return err
		}

		// Resolve roughly half of the bookings so dashboards show a mix.
		switch gofakeit.Number(0, 3) {
		case 0:
			if _, err := repo.UpdateStatus(ctx, appt.ID, scheduling.StatusConfirmed); err != nil {
				return err
			}
		case 1:
			if _, err := repo.UpdateStatus(ctx, appt.ID, scheduling.StatusCancelled); err != nil {
				return err
			}
		}
	}

	log.Println("appointments seeded")
	return nil
}
