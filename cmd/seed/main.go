package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/farm-registry/config"
	"github.com/oksasatya/farm-registry/internal/application"
	"github.com/oksasatya/farm-registry/internal/domain/shared"
	pginfra "github.com/oksasatya/farm-registry/internal/infrastructure/postgres"
	"github.com/oksasatya/farm-registry/pkg/document"
	"github.com/oksasatya/farm-registry/pkg/fieldcrypt"
	"github.com/oksasatya/farm-registry/pkg/helpers"
)

type seedFarm struct {
	producer string
	kind     document.Kind
	property string
	city     string
	state    string
	total    int
	arable   int
	veg      int
	year     int
	crops    []string
}

var farms = []seedFarm{
	{"Ana Souza", document.CPF, "Fazenda Boa Vista", "Sorriso", "MT", 1200, 900, 250, 2024, []string{"Soja", "Milho"}},
	{"Agro Cerrado Ltda", document.CNPJ, "Fazenda Santa Rita", "Rio Verde", "GO", 800, 500, 300, 2023, []string{"Soja", "Algodão"}},
	{"João Pereira", document.CPF, "Sítio Esperança", "Londrina", "PR", 150, 100, 40, 2024, []string{"Café"}},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	codec, err := fieldcrypt.New(cfg.EncryptionKey, cfg.EncryptionEnabled)
	if err != nil {
		log.Fatalf("failed to init field encryption: %v", err)
	}

	auth := application.NewAuthService(pginfra.NewAdminRepository(pool), helpers.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL, cfg.AppName), logger)
	producers := application.NewProducerService(pginfra.NewProducerRepository(pool), codec, nil, logger)
	properties := application.NewPropertyService(pginfra.NewPropertyRepository(pool), codec, nil, nil, nil, logger)
	harvests := application.NewHarvestService(pginfra.NewHarvestRepository(pool), pginfra.NewCropRepository(pool), codec, nil, nil, logger)

	email, password := "admin@farm.local", "password123"
	if _, err := auth.Register(ctx, email, password); err != nil {
		if shared.KindOf(err) != shared.KindConflict {
			log.Fatalf("failed to seed admin: %v", err)
		}
		fmt.Printf("admin already present: email=%s\n", email)
	} else {
		fmt.Printf("seeded admin: email=%s password=%s\n", email, password)
	}

	for _, f := range farms {
		p, err := producers.Create(ctx, application.CreateProducerInput{CPFCNPJ: document.Generate(f.kind), Name: f.producer})
		if err != nil {
			log.Fatalf("failed to seed producer %q: %v", f.producer, err)
		}
		prop, err := properties.Create(ctx, application.CreatePropertyInput{
			Name:             f.property,
			City:             f.city,
			State:            f.state,
			TotalArea:        f.total,
			AgriculturalArea: f.arable,
			VegetationArea:   f.veg,
			ProducerID:       p.ID,
		})
		if err != nil {
			log.Fatalf("failed to seed property %q: %v", f.property, err)
		}
		h, err := harvests.Create(ctx, application.CreateHarvestInput{Year: f.year, PropertyID: prop.ID})
		if err != nil {
			log.Fatalf("failed to seed harvest: %v", err)
		}
		for _, name := range f.crops {
			if _, err := harvests.AddCrop(ctx, application.AddCropInput{Name: name, HarvestID: h.ID}); err != nil {
				log.Fatalf("failed to seed crop %q: %v", name, err)
			}
		}
		fmt.Printf("seeded %s (%s) -> %s/%s, harvest %d with %d crops\n", f.producer, p.CPFCNPJ, prop.City, prop.State, f.year, len(f.crops))
	}
}
