package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/veissa/tiredOfLife/config"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/app/repository"
	"github.com/veissa/tiredOfLife/internal/app/service"
	"github.com/veissa/tiredOfLife/internal/db"
	"github.com/veissa/tiredOfLife/internal/spreadsheet"
	"github.com/veissa/tiredOfLife/pkg/logger"
	"gorm.io/gorm"
)

const minPasswordLength = 6

func main() {
	yes := flag.Bool("y", false, "import without asking for confirmation")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: seed [-y] <catalog.xlsx>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("Failed to open catalog", err, logger.Fields{"path": filePath})
	}
	rows, err := spreadsheet.ReadCatalog(f)
	f.Close()
	if err != nil {
		logger.Fatal("Failed to read catalog", err, logger.Fields{"path": filePath})
	}

	fmt.Printf("Catalog rows to import: %d\n", len(rows))
	if !*yes && !confirm("Do you want to proceed with the import? (yes/no): ") {
		fmt.Println("Import cancelled.")
		return
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	res, err := importCatalog(db.GetDB(), cfg.JWT, rows)
	if err != nil {
		logger.Fatal("Import aborted", err)
	}

	fmt.Println("Import completed.")
	fmt.Printf("Producers created: %d, reused: %d\n", res.ProducersCreated, res.ProducersReused)
	fmt.Printf("Products created: %d, rows skipped: %d\n", res.ProductsCreated, len(res.Skipped))
	for _, s := range res.Skipped {
		fmt.Printf("  row %d: %s\n", s.Row, s.Reason)
	}
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}

type skippedRow struct {
	Row    int
	Reason string
}

type importResult struct {
	ProducersCreated int
	ProducersReused  int
	ProductsCreated  int
	Skipped          []skippedRow
}

// importCatalog registers one producer account per email and adds each row's
// product to that account's first shop. Existing accounts are reused as is.
// Row level problems are reported in the result; only database failures abort.
func importCatalog(gdb *gorm.DB, jwt config.JWTConfig, rows []spreadsheet.CatalogRow) (*importResult, error) {
	userRepo := repository.NewUserRepository(gdb)
	producerRepo := repository.NewProducerRepository(gdb)
	authService := service.NewAuthService(
		gdb,
		userRepo,
		producerRepo,
		repository.NewCustomerRepository(gdb),
		jwt.Secret,
		jwt.Expiry,
		nil,
	)
	productService := service.NewProductService(repository.NewProductRepository(gdb), producerRepo)

	res := &importResult{}
	owners := make(map[string]uuid.UUID)
	skip := func(row int, format string, args ...interface{}) {
		res.Skipped = append(res.Skipped, skippedRow{Row: row, Reason: fmt.Sprintf(format, args...)})
	}

	for _, row := range rows {
		email := strings.ToLower(strings.TrimSpace(row.Email))

		ownerID, seen := owners[email]
		if !seen {
			id, created, err := ensureProducer(authService, userRepo, email, row)
			if err != nil {
				var verr *service.ValidationError
				if errors.As(err, &verr) || errors.Is(err, errInvalidSeedAccount) {
					skip(row.Row, "%v", err)
					continue
				}
				return res, fmt.Errorf("row %d: %w", row.Row, err)
			}
			owners[email] = id
			ownerID = id
			if created {
				res.ProducersCreated++
			} else {
				res.ProducersReused++
			}
		}

		price, stock := row.Price, row.Stock
		name, category, unit, description := row.ProductName, row.Category, row.Unit, row.ProductDescription
		_, err := productService.Create(ownerID, service.ProductInput{
			Name:        &name,
			Price:       &price,
			Stock:       &stock,
			Category:    &category,
			Unit:        &unit,
			Description: &description,
		})
		if err != nil {
			var verr *service.ValidationError
			if errors.As(err, &verr) || errors.Is(err, service.ErrProducerNotFound) {
				skip(row.Row, "%v", err)
				continue
			}
			return res, fmt.Errorf("row %d: %w", row.Row, err)
		}
		res.ProductsCreated++
	}

	logger.Info("Catalog import finished", logger.Fields{
		"producers_created": res.ProducersCreated,
		"producers_reused":  res.ProducersReused,
		"products_created":  res.ProductsCreated,
		"rows_skipped":      len(res.Skipped),
	})
	return res, nil
}

var errInvalidSeedAccount = errors.New("account exists but is not a producer")

// ensureProducer returns the user id owning email, registering a producer
// account from row when none exists.
func ensureProducer(auth service.AuthService, users repository.UserRepository, email string, row spreadsheet.CatalogRow) (uuid.UUID, bool, error) {
	existing, err := users.FindByEmail(email)
	if err == nil {
		if existing.Role != model.RoleProducer {
			return uuid.Nil, false, errInvalidSeedAccount
		}
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, err
	}

	if len(row.Password) < minPasswordLength {
		return uuid.Nil, false, &service.ValidationError{
			Kind:    service.ValidationInvalid,
			Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength),
			Fields:  []string{"password"},
		}
	}

	user, _, err := auth.Register(service.RegisterInput{
		Email:    email,
		Password: row.Password,
		Role:     model.RoleProducer,
		Profile: service.ProfileData{
			ShopName:    row.ShopName,
			Description: row.Description,
			Address:     row.Address,
		},
	})
	if err != nil {
		return uuid.Nil, false, err
	}
	return user.ID, true, nil
}
