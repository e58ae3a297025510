package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"contacts-admin/internal/config"
	"contacts-admin/internal/database"
	"contacts-admin/internal/models"
	"contacts-admin/internal/repository"
	"contacts-admin/internal/utils"
)

const testSecret = "test-secret"

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		AppName:                 "Contacts Admin",
		JWTSecret:               testSecret,
		ContactBackend:          config.BackendDatabase,
		UploadMaxSize:           10 * 1024 * 1024,
		UploadPath:              t.TempDir(),
		ImportDefaultCategoryID: models.DefaultImportCategoryID,
		ImportMaxErrorLines:     models.MaxReportErrorLines,
		ExportDateLayout:        "02.01.2006",
		ExportFilePrefix:        "Kisiler",
	}
}

func token(role string) string {
	tok, err := utils.GenerateToken(1, "tester", role, testSecret, time.Hour)
	So(err, ShouldBeNil)
	return tok
}

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func doRequest(app *fiber.App, req *http.Request, role string) (*http.Response, []byte) {
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+token(role))
	}
	resp, err := app.Test(req, -1)
	So(err, ShouldBeNil)
	body, err := io.ReadAll(resp.Body)
	So(err, ShouldBeNil)
	resp.Body.Close()
	return resp, body
}

func jsonRequest(method, target string, payload any) *http.Request {
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(target, filename string, data []byte) *http.Request {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, _ := w.CreateFormFile("file", filename)
	_, _ = part.Write(data)
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Total   int  `json:"total"`
		HasMore bool `json:"has_more"`
	} `json:"pagination"`
}

func decode(body []byte) envelope {
	var env envelope
	So(json.Unmarshal(body, &env), ShouldBeNil)
	return env
}

func TestAPIRoutes(t *testing.T) {
	Convey("API routes", t, func() {
		db, err := database.NewSQLite(":memory:")
		So(err, ShouldBeNil)
		defer db.Close()
		So(database.Migrate(db), ShouldBeNil)

		category, err := repository.NewCategoryRepository(db).FindByID(context.Background(), models.DefaultImportCategoryID)
		So(err, ShouldBeNil)
		So(category.Name, ShouldEqual, "Genel")

		app := fiber.New()
		Setup(app, db, nil, testConfig(t))

		Convey("health needs no token", func() {
			resp, _ := doRequest(app, httptest.NewRequest(http.MethodGet, "/health", nil), "")
			So(resp.StatusCode, ShouldEqual, fiber.StatusOK)
		})

		Convey("api routes require a bearer token", func() {
			resp, body := doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil), "")
			So(resp.StatusCode, ShouldEqual, fiber.StatusUnauthorized)
			So(decode(body).Success, ShouldBeFalse)
		})

		Convey("creating a category is admin only", func() {
			resp, _ := doRequest(app, jsonRequest(http.MethodPost, "/api/v1/categories", fiber.Map{"name": "Basın"}), "user")
			So(resp.StatusCode, ShouldEqual, fiber.StatusForbidden)

			resp, _ = doRequest(app, jsonRequest(http.MethodPost, "/api/v1/categories", fiber.Map{"name": "Basın"}), "admin")
			So(resp.StatusCode, ShouldEqual, fiber.StatusCreated)

			resp, body := doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil), "user")
			So(resp.StatusCode, ShouldEqual, fiber.StatusOK)
			var categories []models.Category
			So(json.Unmarshal(decode(body).Data, &categories), ShouldBeNil)
			So(len(categories), ShouldEqual, 2)
		})

		Convey("single contact create", func() {
			Convey("rejects a missing surname with 400", func() {
				resp, _ := doRequest(app, jsonRequest(http.MethodPost, "/api/v1/contacts", fiber.Map{"name": "Ahmet"}), "user")
				So(resp.StatusCode, ShouldEqual, fiber.StatusBadRequest)
			})

			Convey("answers 422 when the backend refuses the record", func() {
				resp, body := doRequest(app, jsonRequest(http.MethodPost, "/api/v1/contacts",
					fiber.Map{"name": "Ahmet", "surname": "Yılmaz", "category_id": 99}), "user")
				So(resp.StatusCode, ShouldEqual, fiber.StatusUnprocessableEntity)
				So(decode(body).Message, ShouldContainSubstring, "category 99")
			})

			Convey("stores a valid contact and returns its id", func() {
				resp, body := doRequest(app, jsonRequest(http.MethodPost, "/api/v1/contacts",
					fiber.Map{"name": "Ahmet", "surname": "Yılmaz", "gender": "erkek"}), "user")
				So(resp.StatusCode, ShouldEqual, fiber.StatusCreated)

				var created struct {
					ID int `json:"id"`
				}
				So(json.Unmarshal(decode(body).Data, &created), ShouldBeNil)
				So(created.ID, ShouldBeGreaterThan, 0)

				resp, body = doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/contacts/1", nil), "user")
				So(resp.StatusCode, ShouldEqual, fiber.StatusOK)
				var contact models.Contact
				So(json.Unmarshal(decode(body).Data, &contact), ShouldBeNil)
				So(contact.Gender, ShouldEqual, "male")
				So(contact.CategoryName, ShouldEqual, "Genel")
			})

			Convey("unknown contact is 404", func() {
				resp, _ := doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/contacts/42", nil), "user")
				So(resp.StatusCode, ShouldEqual, fiber.StatusNotFound)
			})
		})

		Convey("import without a queue runs inline", func() {
			blob := mkXLSX([][]any{
				{"Ad", "Soyad", "Telefon 1", "Cinsiyet"},
				{"Ahmet", "Yılmaz", "5321234567", "Erkek"},
				{"", "Demir"},
				{"Ayşe", "Kaya", "", "kadın"},
			})

			resp, body := doRequest(app, uploadRequest("/api/v1/contacts/import", "kisiler.xlsx", blob), "user")
			So(resp.StatusCode, ShouldEqual, fiber.StatusOK)

			var result struct {
				SessionCode string              `json:"session_code"`
				Report      models.ImportReport `json:"report"`
			}
			So(json.Unmarshal(decode(body).Data, &result), ShouldBeNil)
			So(result.Report.Total, ShouldEqual, 3)
			So(result.Report.Succeeded, ShouldEqual, 2)
			So(result.Report.Failed, ShouldEqual, 1)
			So(result.Report.Errors, ShouldResemble, []string{"Row 3: name and surname are required"})

			Convey("the contacts are listed", func() {
				resp, body := doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/contacts?search=Kaya", nil), "user")
				So(resp.StatusCode, ShouldEqual, fiber.StatusOK)
				env := decode(body)
				So(env.Pagination.Total, ShouldEqual, 1)
				So(env.Pagination.HasMore, ShouldBeFalse)
			})

			Convey("the session is recorded as completed", func() {
				resp, body := doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/imports/"+result.SessionCode, nil), "user")
				So(resp.StatusCode, ShouldEqual, fiber.StatusOK)
				var detail struct {
					Session models.ImportSession `json:"session"`
					Report  models.ImportReport  `json:"report"`
				}
				So(json.Unmarshal(decode(body).Data, &detail), ShouldBeNil)
				So(detail.Session.Status, ShouldEqual, models.ImportStatusCompleted)
				So(detail.Report.Errors, ShouldResemble, result.Report.Errors)

				resp, body = doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/imports/"+result.SessionCode+"/progress", nil), "user")
				So(resp.StatusCode, ShouldEqual, fiber.StatusOK)
				So(string(decode(body).Data), ShouldContainSubstring, `"progress":100`)

				resp, body = doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/imports", nil), "user")
				So(resp.StatusCode, ShouldEqual, fiber.StatusOK)
				So(decode(body).Pagination.Total, ShouldEqual, 1)
			})

			Convey("the export carries the imported contacts", func() {
				resp, body := doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/contacts/export", nil), "user")
				So(resp.StatusCode, ShouldEqual, fiber.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldStartWith, "application/vnd.openxmlformats")
				So(resp.Header.Get("Content-Disposition"), ShouldContainSubstring, "Kisiler_")

				f, err := excelize.OpenReader(bytes.NewReader(body))
				So(err, ShouldBeNil)
				defer f.Close()
				rows, err := f.GetRows(f.GetSheetList()[0])
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				So(rows[1][1], ShouldEqual, "Ahmet")
				So(rows[2][13], ShouldEqual, "Kadın")
			})

			Convey("the import history exports as a workbook", func() {
				resp, _ := doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/imports/export", nil), "user")
				So(resp.StatusCode, ShouldEqual, fiber.StatusOK)
				So(resp.Header.Get("Content-Disposition"), ShouldContainSubstring, "Import_Oturumlari_")
			})
		})

		Convey("import rejects unsupported files before staging", func() {
			resp, body := doRequest(app, uploadRequest("/api/v1/contacts/import", "kisiler.csv", []byte("Ad,Soyad")), "user")
			So(resp.StatusCode, ShouldEqual, fiber.StatusBadRequest)
			So(decode(body).Message, ShouldContainSubstring, "unsupported file type")

			resp, body = doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/imports", nil), "user")
			So(resp.StatusCode, ShouldEqual, fiber.StatusOK)
			So(decode(body).Pagination.Total, ShouldEqual, 0)
		})

		Convey("unreadable workbooks fail the session", func() {
			resp, body := doRequest(app, uploadRequest("/api/v1/contacts/import", "kisiler.xlsx", []byte("not a workbook")), "user")
			So(resp.StatusCode, ShouldEqual, fiber.StatusBadRequest)
			So(strings.ToLower(decode(body).Message), ShouldContainSubstring, "workbook")
		})

		Convey("unknown import session is 404", func() {
			resp, _ := doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/imports/IMPORT-NOPE/progress", nil), "user")
			So(resp.StatusCode, ShouldEqual, fiber.StatusNotFound)
		})

		Convey("template download", func() {
			resp, body := doRequest(app, httptest.NewRequest(http.MethodGet, "/api/v1/contacts/template", nil), "user")
			So(resp.StatusCode, ShouldEqual, fiber.StatusOK)
			So(resp.Header.Get("Content-Disposition"), ShouldContainSubstring, "kisi_import_sablonu.xlsx")
			So(len(body), ShouldBeGreaterThan, 0)
		})
	})
}
