package migration

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/damoang/eventhub-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions controls the size of generated demo data
type SeedOptions struct {
	Users         int
	Events        int
	Threads       int
	AdminEmail    string
	AdminPassword string
	Seed          int64
}

// SeedDemo fills an empty database with fake members, events and DM threads
func SeedDemo(db *gorm.DB, opts SeedOptions) error {
	faker := gofakeit.New(opts.Seed)

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := domain.Admin{Email: opts.AdminEmail, Name: "Admin", PasswordHash: string(hash)}
		if err := tx.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error; err != nil {
			return err
		}

		users := make([]domain.User, 0, opts.Users)
		for i := 0; i < opts.Users; i++ {
			role := domain.RolePartner
			if i%4 == 0 {
				role = domain.RoleRepresentative
			}
			users = append(users, domain.User{
				Email:        fmt.Sprintf("%d.%s", i, faker.Email()),
				Username:     faker.Username(),
				Name:         faker.Name(),
				Phone:        faker.Phone(),
				Company:      faker.Company(),
				Role:         role,
				PasswordHash: string(hash),
			})
		}
		if len(users) > 0 {
			if err := tx.CreateInBatches(&users, 100).Error; err != nil {
				return err
			}
		}

		group := domain.Group{Title: "Course members", Description: faker.Sentence(6)}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		for i, u := range users {
			if i%3 == 0 {
				if err := tx.Create(&domain.GroupUser{GroupID: group.ID, UserID: u.ID}).Error; err != nil {
					return err
				}
			}
		}

		types := []string{domain.EventTypeRegularMeeting, domain.EventTypeCourse, domain.EventTypeSeminar, domain.EventTypeOnline}
		cities := []string{"", "Tokyo", "Osaka", "Fukuoka"}
		now := time.Now()
		for i := 0; i < opts.Events; i++ {
			start := now.AddDate(0, 0, faker.Number(-10, 60)).Truncate(time.Hour)
			typ := types[i%len(types)]
			event := domain.Event{
				Title:                faker.Sentence(4),
				Description:          faker.Paragraph(1, 3, 12, " "),
				Type:                 typ,
				City:                 cities[faker.Number(0, len(cities)-1)],
				Location:             faker.Street(),
				IsOnline:             typ == domain.EventTypeOnline,
				StartAt:              start,
				EndAt:                start.Add(2 * time.Hour),
				EventCapacity:        faker.Number(5, 40),
				GatherCapacity:       faker.Number(5, 20),
				ConsultationCapacity: faker.Number(1, 8),
				GatherPrice:          faker.Number(10, 50) * 100,
				ConsultationPrice:    faker.Number(30, 100) * 100,
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
			if typ == domain.EventTypeCourse {
				if err := tx.Create(&domain.EventVisibleGroup{EventID: event.ID, GroupID: group.ID}).Error; err != nil {
					return err
				}
			}
		}

		for i := 0; i < opts.Threads && i < len(users); i++ {
			last := now.Add(-time.Duration(faker.Number(1, 72*60)) * time.Minute)
			thread := domain.DMThread{UserID: users[i].ID, IsAdminRead: faker.Bool(), LastSentAt: &last}
			if err := tx.Create(&thread).Error; err != nil {
				return err
			}
			n := faker.Number(1, 6)
			for j := 0; j < n; j++ {
				sender, uid := domain.SenderUser, users[i].ID
				if j%2 == 1 {
					sender, uid = domain.SenderAdmin, admin.ID
				}
				msg := domain.DMMessage{
					ThreadID:   thread.ID,
					UserID:     uid,
					SenderType: sender,
					Content:    faker.Sentence(10),
					IsRead:     thread.IsAdminRead,
					CreatedAt:  last.Add(-time.Duration(n-j) * time.Minute),
				}
				if err := tx.Create(&msg).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
