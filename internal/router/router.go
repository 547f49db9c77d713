package router

import (
	"net/http"

	"vet-clinic-console/internal/backend"
	"vet-clinic-console/internal/config"
	"vet-clinic-console/internal/domain/appointments"
	"vet-clinic-console/internal/domain/medicalhistory"
	"vet-clinic-console/internal/domain/transitions"
	"vet-clinic-console/internal/middleware"
	"vet-clinic-console/internal/platform/logger"

	_ "vet-clinic-console/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Config config.Config
	Logger logger.Logger // nil = Nop

	// Opcional: si no viene, in-memory sin datos.
	Backend *backend.Backend
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	be := opts.Backend
	if be == nil {
		be = backend.Memory()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Operator)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Services por módulo
	apptsSvc := appointments.NewService(be.Appointments)
	reconciler := medicalhistory.NewReconciler(be.History)
	ctrl := transitions.NewController(apptsSvc, reconciler, transitions.Options{
		Cooldown: opts.Config.TransitionCooldown,
		Logger:   log,
	})

	// Rutas por módulo
	appointments.RegisterRoutes(r, apptsSvc)
	medicalhistory.RegisterRoutes(r, reconciler)
	transitions.RegisterRoutes(r, ctrl, apptsSvc)

	return r
}
