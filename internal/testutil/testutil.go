package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NelsonAGM/AdminRST-sub000/internal/entity"
	"github.com/NelsonAGM/AdminRST-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "adminrst-test-jwt-secret"

// SetupTestDB opens an isolated in-memory sqlite database and migrates
// every table. Each call gets its own database; shared cache keeps it
// alive across the pooled connections of one test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupRouter creates a gin test router.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group guarded by the JWT middleware.
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid token for the given user.
func GenerateTestToken(userID uint, name, email, role string) string {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: userID,
		Name:   name,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "adminrst-test",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user.
func DefaultTestToken() string {
	return GenerateTestToken(1, "Test Admin", "admin@test.com", entity.RoleAdmin)
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response envelope into a map.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedClient creates a client row.
func SeedClient(t *testing.T, db *gorm.DB, name, email string) *entity.Client {
	t.Helper()
	client := &entity.Client{
		Name:  name,
		Email: email,
		Phone: "555-0100",
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("Failed to seed client: %v", err)
	}
	return client
}

// SeedEquipment creates an equipment row under a client.
func SeedEquipment(t *testing.T, db *gorm.DB, clientID uint, kind, brand string) *entity.Equipment {
	t.Helper()
	equip := &entity.Equipment{
		ClientID: clientID,
		Type:     kind,
		Brand:    brand,
	}
	if err := db.Create(equip).Error; err != nil {
		t.Fatalf("Failed to seed equipment: %v", err)
	}
	return equip
}

// SeedTechnician creates a technician row.
func SeedTechnician(t *testing.T, db *gorm.DB, name string) *entity.Technician {
	t.Helper()
	tech := &entity.Technician{
		Name:   name,
		Active: true,
	}
	if err := db.Create(tech).Error; err != nil {
		t.Fatalf("Failed to seed technician: %v", err)
	}
	return tech
}

// SeedSettings writes the company settings row.
func SeedSettings(t *testing.T, db *gorm.DB, companyName string) *entity.CompanySettings {
	t.Helper()
	settings := &entity.CompanySettings{
		ID:   1,
		Name: companyName,
	}
	if err := db.Save(settings).Error; err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}
	return settings
}
