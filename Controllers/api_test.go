package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/Aryan1411/hms/Controllers"
	"github.com/Aryan1411/hms/Models"
	"github.com/Aryan1411/hms/Routes"
	"github.com/Aryan1411/hms/Tasks"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noopSender struct{}

func (noopSender) Send(to, subject, body string) error { return nil }

func setupAPI(t *testing.T) (*gin.Engine, *Tasks.Runner) {
	t.Helper()
	t.Setenv("API_SECRET", "api-test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	Models.Migrate(db)
	Models.DB = db

	runner := Tasks.NewRunner(db, noopSender{}, Tasks.NewManager(Tasks.NewMemoryStore()), t.TempDir())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	Routes.ConfigRoutes(router, Controllers.NewDoctorController(runner), Controllers.NewPatientController(runner))
	return router, runner
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var decoded map[string]interface{}
	if recorder.Body.Len() > 0 {
		if err := json.Unmarshal(recorder.Body.Bytes(), &decoded); err != nil {
			decoded = nil
		}
	}
	return recorder, decoded
}

func loginAs(t *testing.T, router *gin.Engine, username, password string) (string, map[string]interface{}) {
	t.Helper()
	recorder, body := doJSON(t, router, "POST", "/api/auth/login", "",
		gin.H{"username": username, "password": password})
	if recorder.Code != http.StatusOK {
		t.Fatalf("login as %s failed: %d %s", username, recorder.Code, recorder.Body.String())
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login response missing token")
	}
	return token, body
}

func TestRegisterLoginVerify(t *testing.T) {
	router, _ := setupAPI(t)

	recorder, body := doJSON(t, router, "POST", "/api/auth/register", "",
		gin.H{"username": "bob", "password": "secret123", "email": "bob@mail.test"})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("register: got %d, body %s", recorder.Code, recorder.Body.String())
	}
	if body["patient_id"] == nil {
		t.Fatal("register response missing patient_id")
	}

	recorder, _ = doJSON(t, router, "POST", "/api/auth/register", "",
		gin.H{"username": "bob", "password": "other", "email": "bob2@mail.test"})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("duplicate username: got %d", recorder.Code)
	}

	token, loginBody := loginAs(t, router, "bob", "secret123")
	if loginBody["role"] != Models.RolePatient {
		t.Fatalf("expected patient role, got %v", loginBody["role"])
	}
	if loginBody["patient_id"] == nil {
		t.Fatal("login response missing patient_id for patient role")
	}

	recorder, body = doJSON(t, router, "GET", "/api/auth/verify?token="+token, "", nil)
	if recorder.Code != http.StatusOK || body["valid"] != true {
		t.Fatalf("verify: got %d, body %s", recorder.Code, recorder.Body.String())
	}

	recorder, _ = doJSON(t, router, "POST", "/api/auth/login", "",
		gin.H{"username": "bob", "password": "wrong"})
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: got %d", recorder.Code)
	}
}

func TestRoleEnforcement(t *testing.T) {
	router, _ := setupAPI(t)

	recorder, _ := doJSON(t, router, "GET", "/api/admin/doctors", "", nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("no token: got %d", recorder.Code)
	}

	doJSON(t, router, "POST", "/api/auth/register", "",
		gin.H{"username": "eve", "password": "secret123"})
	token, _ := loginAs(t, router, "eve", "secret123")

	recorder, _ = doJSON(t, router, "GET", "/api/admin/doctors", token, nil)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("patient on admin route: got %d", recorder.Code)
	}

	recorder, _ = doJSON(t, router, "GET", "/api/patient/doctors", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("patient on patient route: got %d", recorder.Code)
	}
}

func TestBookingFlow(t *testing.T) {
	router, runner := setupAPI(t)

	doctor, err := Models.CreateDoctor("drwho", "password", "drwho@clinic.test", "Dr. Who", "Cardiology", "Cardiology")
	if err != nil {
		t.Fatalf("CreateDoctor failed: %v", err)
	}
	slot, err := Models.AddAvailability(doctor.ID, "2024-07-01", "09:00", "09:30")
	if err != nil {
		t.Fatalf("AddAvailability failed: %v", err)
	}

	doJSON(t, router, "POST", "/api/auth/register", "",
		gin.H{"username": "carol", "password": "secret123", "email": "carol@mail.test"})
	token, loginBody := loginAs(t, router, "carol", "secret123")
	patientID := uint(loginBody["patient_id"].(float64))

	recorder, body := doJSON(t, router, "POST", "/api/patient/book_slot", token,
		gin.H{"slot_id": slot.ID, "patient_id": patientID, "reason": "Checkup"})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("book: got %d, body %s", recorder.Code, recorder.Body.String())
	}
	if body["task_id"] == nil || body["appointment_id"] == nil {
		t.Fatalf("booking response incomplete: %v", body)
	}
	runner.Manager.Wait()

	recorder, _ = doJSON(t, router, "POST", "/api/patient/book_slot", token,
		gin.H{"slot_id": slot.ID, "patient_id": patientID, "reason": "Again"})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("double booking: got %d", recorder.Code)
	}

	recorder, _ = doJSON(t, router, "GET", "/api/patient/doctor/1/availability", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("availability listing: got %d", recorder.Code)
	}
}

func TestExportStatusEndpoint(t *testing.T) {
	router, runner := setupAPI(t)

	doJSON(t, router, "POST", "/api/auth/register", "",
		gin.H{"username": "dana", "password": "secret123", "email": "dana@mail.test"})
	token, loginBody := loginAs(t, router, "dana", "secret123")
	patientID := uint(loginBody["patient_id"].(float64))

	recorder, body := doJSON(t, router, "POST",
		"/api/patient/export-treatments/"+strconv.FormatUint(uint64(patientID), 10), token, nil)
	if recorder.Code != http.StatusAccepted {
		t.Fatalf("trigger export: got %d, body %s", recorder.Code, recorder.Body.String())
	}
	taskID, _ := body["task_id"].(string)
	if taskID == "" {
		t.Fatal("export response missing task_id")
	}
	runner.Manager.Wait()

	recorder, body = doJSON(t, router, "GET", "/api/patient/export-status/"+taskID, token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("export status: got %d", recorder.Code)
	}
	if body["state"] != string(Tasks.StateSuccess) {
		t.Fatalf("expected SUCCESS state, got %v", body["state"])
	}

	result, _ := body["result"].(map[string]interface{})
	filename, _ := result["filename"].(string)
	if filename == "" {
		t.Fatal("export result missing filename")
	}

	recorder, _ = doJSON(t, router, "GET", "/api/patient/download-export/"+filename, token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("download: got %d", recorder.Code)
	}

	recorder, _ = doJSON(t, router, "GET", "/api/patient/export-status/no-such-task", token, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("unknown task: got %d", recorder.Code)
	}
}

