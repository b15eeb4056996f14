package infra

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"emesanalytics/internal/config"
)

// NewFirebaseDB connects to the Realtime Database that holds the operational
// collections (ventas_vendedor, convenios, recibos_caja, cuotas_vendedores,
// analisis_vendedores, maestros/*). Credentials are optional so the local
// emulator works without a service account.
func NewFirebaseDB(ctx context.Context, cfg *config.Config) (*db.Client, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: cfg.FirebaseDatabaseURL}, opts...)
	if err != nil {
		return nil, err
	}
	return app.Database(ctx)
}
