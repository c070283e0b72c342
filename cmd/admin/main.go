package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"hooptalk/backend/internal/config"
	"hooptalk/backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "assign-moderator":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin assign-moderator <inquiry_id> <moderator_id>")
			os.Exit(1)
		}
		inquiryID := os.Args[2]
		moderatorID, err := strconv.ParseUint(os.Args[3], 10, 64)
		if err != nil {
			fmt.Println("Invalid moderator ID. Please provide an integer.")
			os.Exit(1)
		}
		if _, err := storageSvc.AssignModerator(inquiryID, uint(moderatorID)); err != nil {
			log.Fatalf("Error assigning moderator: %v", err)
		}
		fmt.Printf("Moderator %d has been assigned to inquiry %s.\n", moderatorID, inquiryID)
	case "block-chat":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin block-chat <user_id>")
			os.Exit(1)
		}
		if err := setChatBlocked(storageSvc, os.Args[2], true); err != nil {
			log.Fatalf("Error blocking user: %v", err)
		}
		fmt.Printf("User %s can no longer use chats.\n", os.Args[2])
	case "unblock-chat":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unblock-chat <user_id>")
			os.Exit(1)
		}
		if err := setChatBlocked(storageSvc, os.Args[2], false); err != nil {
			log.Fatalf("Error unblocking user: %v", err)
		}
		fmt.Printf("User %s can use chats again.\n", os.Args[2])
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func setChatBlocked(s storage.Storage, rawUserID string, blocked bool) error {
	userID, err := strconv.ParseUint(rawUserID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", rawUserID)
	}
	user, err := s.GetUserByID(uint(userID))
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %d not found", userID)
	}
	user.ChatBlocked = blocked
	return s.SaveUser(user)
}
