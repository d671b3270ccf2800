// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/experienceprogram/campaign-backend/internal/ai"
	"github.com/experienceprogram/campaign-backend/internal/controller"
	"github.com/experienceprogram/campaign-backend/internal/db"
	"github.com/experienceprogram/campaign-backend/internal/handler"
	"github.com/experienceprogram/campaign-backend/internal/queue"
	"github.com/experienceprogram/campaign-backend/internal/repository"
	"github.com/experienceprogram/campaign-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()

	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	resultRepo := &repository.MessageResultRepository{DB: db.DB}
	sessionRepo := &repository.ChatSessionRepository{DB: db.DB}

	aiClient := ai.NewHTTPClient(os.Getenv("AI_BASE_URL"))

	// AI jobs go through RabbitMQ when configured (the worker binary runs
	// the continuations), otherwise through in-process goroutines.
	var q queue.Queue
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		amqpQueue, err := queue.NewAmqpQueue(amqpURL)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ:", err)
		}
		q = amqpQueue
		log.Println("📨 AI jobs routed through RabbitMQ")
	} else {
		q = queue.NewInMemoryQueue()
	}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		ResultRepo:   resultRepo,
		AiClient:     aiClient,
		Queue:        q,
	}
	chatService := &service.ChatService{
		SessionRepo: sessionRepo,
		AiClient:    aiClient,
	}
	dashboardService := &service.DashboardService{
		CampaignRepo: campaignRepo,
	}

	if _, inMemory := q.(*queue.InMemoryQueue); inMemory {
		queue.StartAiJobSubscriber(q, campaignService)
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
		ChatService:     chatService,
	}
	chatController := &controller.ChatController{ChatService: chatService}
	dashboardController := &controller.DashboardController{DashboardService: dashboardService}
	campaignHandler := &handler.CampaignHandler{Service: campaignService}

	r := chi.NewRouter()

	// Campaign routes
	r.Post("/api/campaigns", campaignController.CreateCampaign)
	r.Get("/api/campaigns", campaignController.ListCampaigns)
	r.Get("/api/campaigns/{id}", campaignController.GetCampaign)
	r.Delete("/api/campaigns/{id}", campaignController.DeleteCampaign)
	r.Get("/api/campaigns/{id}/results", campaignController.GetCampaignResults)
	r.Get("/api/campaigns/{id}/details", campaignHandler.GetCampaignWithResults)
	r.Post("/api/campaigns/{id}/select", campaignController.SelectMessage)
	r.Post("/api/campaigns/{id}/refine", campaignController.RefineMessage)
	r.Post("/api/campaigns/{id}/performance", campaignController.UpdatePerformance)
	r.Post("/api/campaigns/{id}/rag", campaignController.TriggerRagRegistration)

	// Interactive builder
	r.Post("/api/campaigns/build/chat", campaignController.InteractiveBuild)

	// Chat sessions
	r.Get("/api/chat/sessions", chatController.ListSessions)
	r.Get("/api/chat/sessions/{conversationId}", chatController.GetSession)
	r.Delete("/api/chat/sessions/{conversationId}", chatController.DeleteSession)

	// Dashboard
	r.Get("/api/dashboard/summary", dashboardController.GetMonthlySummary)
	r.Get("/api/dashboard/recent-activity", dashboardController.GetRecentActivity)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
