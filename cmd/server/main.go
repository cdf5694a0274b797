package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/payment"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/router"
	"github.com/iliyamo/restaurant-reservation/internal/service"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable, rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	menu := repository.NewMenuRepo(db)
	reservations := repository.NewReservationRepo(db)
	orders := repository.NewOrderRepo(db)
	transactions := repository.NewTransactionRepo(db)

	gateway := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentServerKey)
	orchestrator := &service.Orchestrator{Transactions: transactions, Gateway: gateway}
	identity := &service.IdentityResolver{Users: users, Secret: cfg.GuestTokenSecret}

	reservationSvc := &service.ReservationService{
		Users:        users,
		Menu:         menu,
		Reservations: reservations,
		Tx:           orchestrator,
		GuestSecret:  cfg.GuestTokenSecret,
		Publish:      queue.PublishOrderConfirmed,
	}
	orderSvc := &service.OrderService{
		Users:       users,
		Menu:        menu,
		Orders:      orders,
		Tx:          orchestrator,
		GuestSecret: cfg.GuestTokenSecret,
		Publish:     queue.PublishOrderConfirmed,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := &service.Sweeper{
		Reservations:  reservationSvc,
		Orders:        orderSvc,
		Interval:      cfg.SweepInterval,
		PendingMaxAge: cfg.PendingMaxAge,
	}
	go sweeper.Run(ctx)

	go func() {
		if err := queue.StartConfirmedConsumer(); err != nil {
			log.Printf("confirmed consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, router.Handlers{
		Menu:         handler.NewMenuHandler(menu),
		Members:      handler.NewMemberHandler(users, utils.VerifyPassword, cfg.BcryptCost),
		Reservations: handler.NewReservationHandler(reservationSvc, identity),
		Orders:       handler.NewOnlineOrderHandler(orderSvc, identity),
		Transactions: handler.NewTransactionHandler(reservationSvc, orderSvc, orchestrator, identity),
	}, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
