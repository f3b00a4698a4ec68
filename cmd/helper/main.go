package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/db"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/permissions"
	"github.com/hamzat06/esk-sub000/internal/utils"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// Operator CLI for admin grants. The API deliberately cannot mint an
// unrestricted admin, so promoting one (or recovering a locked-out install)
// happens here, with direct database access.
func main() {
	var log = logger.New("helper")
	log.Info("Starting admin grant helper CLI")

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		_ = log.Error("Failed to load configuration", err)
		return
	}

	if err := db.Connect(cfg); err != nil {
		_ = log.Error("Failed to connect to database", err)
		return
	}
	defer db.Close()
	gdb := db.GetDB()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("Enter 's' to grant super admin, 'g' to grant scoped admin, 'r' to revoke, 'p' to reset a password, or 'q' to quit: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)

		if choice == "q" {
			log.Info("Exiting helper CLI")
			break
		}

		fmt.Print("Profile email: ")
		email, _ := reader.ReadString('\n')
		email = strings.TrimSpace(email)

		var profile models.Profile
		if err := gdb.Where("email = ?", email).First(&profile).Error; err != nil {
			log.Warn("No profile with email %s", email)
			continue
		}

		switch choice {
		case "s":
			err = gdb.Model(&profile).Updates(map[string]interface{}{
				"role":   models.UserRoleAdmin,
				"access": permissions.Unrestricted(),
			}).Error
			if err != nil {
				_ = log.Error("Failed to grant super admin", err)
			} else {
				log.Success("%s is now a super admin", email)
			}

		case "g":
			fmt.Printf("Permissions, comma separated (known: %v): ", permissions.All())
			raw, _ := reader.ReadString('\n')
			var perms []permissions.Permission
			for _, tag := range strings.Split(strings.TrimSpace(raw), ",") {
				tag = strings.TrimSpace(tag)
				if tag == "" {
					continue
				}
				perm := permissions.Permission(tag)
				if !permissions.IsValid(perm) {
					log.Warn("Skipping unknown permission %q", tag)
					continue
				}
				perms = append(perms, perm)
			}
			if len(perms) == 0 {
				log.Warn("No valid permissions given, nothing changed")
				continue
			}
			err = gdb.Model(&profile).Updates(map[string]interface{}{
				"role":   models.UserRoleAdmin,
				"access": permissions.Scoped(perms...),
			}).Error
			if err != nil {
				_ = log.Error("Failed to grant admin", err)
			} else {
				log.Success("%s is now an admin with %v", email, perms)
			}

		case "r":
			err = gdb.Model(&profile).Updates(map[string]interface{}{
				"role":   models.UserRoleCustomer,
				"access": permissions.Scoped(),
			}).Error
			if err != nil {
				_ = log.Error("Failed to revoke admin", err)
			} else {
				log.Success("%s is now a customer", email)
			}

		case "p":
			temp, err := utils.GenerateRandomString(16)
			if err != nil {
				_ = log.Error("Failed to generate temporary password", err)
				continue
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
			if err != nil {
				_ = log.Error("Failed to hash temporary password", err)
				continue
			}
			if err := gdb.Model(&profile).Update("password", string(hashed)).Error; err != nil {
				_ = log.Error("Failed to reset password", err)
			} else {
				log.Success("Temporary password for %s: %s", email, temp)
			}

		default:
			log.Warn("Invalid choice. Please enter 's', 'g', 'r', 'p', or 'q'.")
		}
	}
}
