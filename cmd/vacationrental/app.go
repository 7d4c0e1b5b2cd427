package main

import (
	"log/slog"
	"time"

	"vacationrental/internal/app/commands"
	"vacationrental/internal/app/dto"
	bookingapp "vacationrental/internal/app/handlers/booking"
	calendarapp "vacationrental/internal/app/handlers/calendar"
	rentalsapp "vacationrental/internal/app/handlers/rentals"
	"vacationrental/internal/app/middleware"
	"vacationrental/internal/app/outbox"
	"vacationrental/internal/app/queries"
	"vacationrental/internal/domain/availability"
	"vacationrental/internal/infra/config"
	ginserver "vacationrental/internal/infra/http/gin"
	"vacationrental/internal/infra/validation"
)

type application struct {
	commands commands.Bus
	queries  queries.Bus
	handlers ginserver.Handlers
}

func buildApplication(cfg config.Config, logger *slog.Logger, store backend, flusher outbox.Flusher) application {
	encoder := outbox.JSONEventEncoder{}
	clock := func() time.Time { return time.Now().UTC() }

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler[rentalsapp.CreateRentalCommand, *dto.ResourceID](commandBus, &rentalsapp.CreateRentalHandler{UoWFactory: store.uowFactory, Encoder: encoder, Now: clock})
	commands.RegisterHandler[rentalsapp.UpdateRentalCommand, *dto.Rental](commandBus, &rentalsapp.UpdateRentalHandler{UoWFactory: store.uowFactory, Encoder: encoder, Now: clock})
	commands.RegisterHandler[bookingapp.CreateBookingCommand, *dto.ResourceID](commandBus, &bookingapp.CreateBookingHandler{UoWFactory: store.uowFactory, Encoder: encoder, Now: clock})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler[rentalsapp.GetRentalQuery, *dto.Rental](queryBus, &rentalsapp.GetRentalHandler{UoWFactory: store.uowFactory})
	queries.RegisterHandler[bookingapp.GetBookingQuery, *dto.Booking](queryBus, &bookingapp.GetBookingHandler{UoWFactory: store.uowFactory})
	queries.RegisterHandler[calendarapp.GetCalendarQuery, *dto.Calendar](queryBus, &calendarapp.GetCalendarHandler{
		UoWFactory: store.uowFactory,
		Projector:  availability.Projector{Numbering: cfg.Numbering()},
		MaxNights:  cfg.CalendarMaxNights,
	})

	validator := validation.New()
	commandMiddleware := []middleware.CommandMiddleware{
		middleware.Logging(logger),
		middleware.Validation(validator),
		middleware.Idempotency(store.idempotency, nil),
	}
	if flusher != nil {
		commandMiddleware = append(commandMiddleware, middleware.OutboxFlush(flusher, logger))
	}
	commandMiddleware = append(commandMiddleware, middleware.Transaction(store.uowFactory, nil))

	cmdBus := middleware.ChainCommands(commandBus, commandMiddleware...)
	qryBus := middleware.ChainQueries(queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(validator),
	)

	return application{
		commands: cmdBus,
		queries:  qryBus,
		handlers: ginserver.Handlers{
			Rentals:  ginserver.RentalHandler{Commands: cmdBus, Queries: qryBus, Logger: logger},
			Bookings: ginserver.BookingHandler{Commands: cmdBus, Queries: qryBus, Logger: logger},
			Calendar: ginserver.CalendarHandler{Queries: qryBus, Logger: logger},
		},
	}
}
