package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"hooptalk/backend/internal/api/handler"
	"hooptalk/backend/internal/chat"
	"hooptalk/backend/internal/config"
	"hooptalk/backend/internal/inquiry"
	"hooptalk/backend/internal/models"
	"hooptalk/backend/internal/notify"
	"hooptalk/backend/internal/realtime"
	"hooptalk/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.UserLike{},
		&models.PostStatus{},
		&models.Post{},
		&models.PostComment{},
		&models.UserChat{},
		&models.UserChatParticipant{},
		&models.UserChatParticipantMessage{},
		&models.InquiryType{},
		&models.InquiryTypeDisplayName{},
		&models.Inquiry{},
		&models.InquiryModerator{},
		&models.InquiryMessage{},
		&models.InquiryModeratorMessage{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting HoopTalk Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db)

	fanOut := notify.NewFanOut(notify.NewRedisPublisher(rdb))
	chats := chat.NewService(s, fanOut)
	inquiries := inquiry.NewService(s, fanOut)

	manager := realtime.NewManager(realtime.NewRedisSubscriber(rdb))
	go manager.Run()

	r := gin.Default()
	h := handler.NewHandler(s, chats, inquiries, manager, []byte(cfg.JWTSecret))

	r.POST("/auth/token", h.GetToken)
	r.GET("/ws", h.ServeWebSocket)

	authed := r.Group("/", h.Authenticate)
	{
		authed.GET("/users", h.ListUsers)
		authed.GET("/users/:userID", h.GetUser)
		authed.GET("/users/:userID/posts", h.ListUserPosts)
		authed.GET("/users/:userID/comments", h.ListUserComments)
		authed.POST("/users/:userID/likes", h.LikeUser)
		authed.DELETE("/users/:userID/likes", h.UnlikeUser)

		authed.GET("/me/chats", h.ListMyChats)
		authed.POST("/users/:userID/chats", h.EnableChat)
		authed.DELETE("/users/:userID/chats", h.DeleteChat)
		authed.POST("/users/:userID/chats/block", h.BlockChat)
		authed.PUT("/users/:userID/chats/read", h.MarkChatAsRead)
		authed.GET("/users/:userID/chats/messages", h.GetChatMessages)
		authed.POST("/users/:userID/chats/messages", h.PostChatMessage)

		authed.GET("/me/inquiries", h.ListMyInquiries)
		authed.GET("/inquiries/:inquiryID", h.GetInquiry)
		authed.GET("/inquiries/:inquiryID/messages", h.GetInquiryMessages)
		authed.POST("/inquiries/:inquiryID/messages", h.PostInquiryMessage)
		authed.PUT("/inquiries/:inquiryID/read", h.MarkInquiryAsRead)

		authed.GET("/moderators/inquiries", h.ListInquiries)
		authed.POST("/moderators/inquiries/:inquiryID/messages", h.PostModeratorMessage)
		authed.PUT("/moderators/inquiries/:inquiryID/read", h.MarkInquiryAsReadForModerator)
	}

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
