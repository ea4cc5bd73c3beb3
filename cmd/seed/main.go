// seed crea datos mínimos de demostración: una bodega con sus ubicaciones,
// un catálogo corto de productos y un usuario admin.
//
// Uso: go run ./cmd/seed
// Lee la configuración de la BD del mismo entorno que cmd/api.
// Es idempotente por las unicidades de la BD: si el dato ya existe, lo salta.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	now := time.Now()
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	// Bodega principal
	wh := &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      "BOD-01",
		Name:      "Bodega Principal",
		Address:   "Calle 10 # 43-12, Medellín",
		CreatedAt: now,
		UpdatedAt: now,
	}
	created := 0
	if err := warehouseRepo.Create(wh); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			fmt.Fprintf(os.Stderr, "Crear bodega: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("bodega BOD-01 ya existe, se omite junto con sus ubicaciones")
	} else {
		created++
		locations := []entity.Location{
			{Code: "STOCK-A", Name: "Estantería A", Kind: entity.LocationKindInternal},
			{Code: "STOCK-B", Name: "Estantería B", Kind: entity.LocationKindInternal},
			{Code: "RECEPCION", Name: "Muelle de recepción", Kind: entity.LocationKindInternal},
			{Code: "MERMAS", Name: "Sumidero de mermas", Kind: entity.LocationKindScrap},
		}
		for _, l := range locations {
			l.ID = uuid.New().String()
			l.WarehouseID = wh.ID
			l.CreatedAt, l.UpdatedAt = now, now
			if err := locationRepo.Create(&l); err != nil {
				fmt.Fprintf(os.Stderr, "Crear ubicación %s: %v\n", l.Code, err)
				os.Exit(1)
			}
			created++
		}
	}

	// Catálogo corto de productos
	products := []entity.Product{
		{SKU: "TORN-M8", Name: "Tornillo hexagonal M8", UnitMeasure: "UND", ReorderPoint: decimal.NewFromInt(500)},
		{SKU: "CABLE-2M", Name: "Cable eléctrico 2 metros", UnitMeasure: "UND", ReorderPoint: decimal.NewFromInt(50)},
		{SKU: "PINT-BL-GL", Name: "Pintura blanca (galón)", UnitMeasure: "GAL", ReorderPoint: decimal.NewFromInt(10)},
	}
	for _, p := range products {
		p.ID = uuid.New().String()
		p.CreatedAt, p.UpdatedAt = now, now
		if err := productRepo.Create(&p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				fmt.Printf("producto %s ya existe, se omite\n", p.SKU)
				continue
			}
			fmt.Fprintf(os.Stderr, "Crear producto %s: %v\n", p.SKU, err)
			os.Exit(1)
		}
		created++
	}

	// Usuario admin de demostración
	hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hashear password: %v\n", err)
		os.Exit(1)
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		Email:        "admin@almacen.local",
		PasswordHash: string(hash),
		Name:         "Administrador",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(admin); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			fmt.Println("usuario admin@almacen.local ya existe, se omite")
		} else {
			fmt.Fprintf(os.Stderr, "Crear usuario: %v\n", err)
			os.Exit(1)
		}
	} else {
		created++
	}

	fmt.Printf("Seed completado: %d registros creados\n", created)
}
