package server

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"

	"github.com/pokedex/core/internal/adapters/repository"
	"github.com/pokedex/core/internal/adapters/seed"
	"github.com/pokedex/core/internal/infrastructure/config"
	"github.com/pokedex/core/internal/infrastructure/logger"
)

type JSON = map[string]interface{}

const testCSV = `name,Type1,Type2,classfication,abilities
Bulba,Grass,Poison,Seed,['overgrow']
Ivysaur,Grass,Poison,Seed Pokémon,"['Overgrow', 'Chlorophyll']"
Charmander,Fire,,Lizard Pokémon,['Blaze']
`

func testConfig(dir string) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "Pokedex", Version: "test", Environment: "test"},
		Server:  config.ServerConfig{Port: 3001, BodyLimit: "1M"},
		Storage: config.StorageConfig{Driver: config.DriverJSON, Path: filepath.Join(dir, "db.json")},
		Seed: config.SeedConfig{
			CSVPath:      filepath.Join(dir, "poke.csv"),
			ImageBaseURL: "http://localhost:3001/images/",
		},
		Security: config.SecurityConfig{CORSAllowedOrigins: "*"},
		Static:   config.StaticConfig{Dir: filepath.Join(dir, "public")},
		Metrics:  config.MetricsConfig{Enabled: true},
	}
}

func newTestAPI(t *testing.T) *apitest.Apitest {
	dir := t.TempDir()
	cfg := testConfig(dir)

	biff.AssertNil(os.WriteFile(cfg.Seed.CSVPath, []byte(testCSV), 0o644))
	biff.AssertNil(os.MkdirAll(filepath.Join(cfg.Static.Dir, "images"), 0o755))
	biff.AssertNil(os.WriteFile(filepath.Join(cfg.Static.Dir, "images", "1.png"), []byte("png"), 0o644))

	log := logger.NewNop()
	loader := seed.NewCSVLoader(cfg.Seed.CSVPath, cfg.Seed.ImageBaseURL, log)
	store := repository.NewJSONStore(cfg.Storage.Path, loader, log)

	s, err := New(cfg, store, nil, log)
	biff.AssertNil(err)

	return apitest.NewWithHandler(s.Handler())
}

func TestAcceptance(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		api := newTestAPI(t)
		defer api.Destroy()

		a.Alternative("Index", func(a *biff.A) {
			resp := api.Request("GET", "/").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyString(), "get Pokemons")
		})

		a.Alternative("List seeded pokemons", func(a *biff.A) {
			resp := api.Request("GET", "/pokemons").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			list := resp.BodyJson().([]interface{})
			biff.AssertEqual(len(list), 3)

			bulba := list[0].(JSON)
			biff.AssertEqualJson(bulba["id"], 1)
			biff.AssertEqual(bulba["name"], "bulba")
			biff.AssertEqualJson(bulba["types"], []string{"grass", "poison"})
			biff.AssertEqual(bulba["category"], "seed")
			biff.AssertEqualJson(bulba["abilities"], []string{"overgrow"})
			biff.AssertEqual(bulba["url"], "http://localhost:3001/images/1.png")
			biff.AssertTrue(regexp.MustCompile(`^\d+(\.\d+)? m$`).MatchString(bulba["height"].(string)))
			biff.AssertTrue(regexp.MustCompile(`^\d+(\.\d+)? kg$`).MatchString(bulba["weight"].(string)))
		})

		a.Alternative("Search with limit", func(a *biff.A) {
			resp := api.Request("GET", "/pokemons").
				WithQuery("search", "bulba").
				WithQuery("limit", "5").
				Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			list := resp.BodyJson().([]interface{})
			biff.AssertEqual(len(list), 1)
			biff.AssertEqual(list[0].(JSON)["name"], "bulba")
		})

		a.Alternative("Filter by type and paginate", func(a *biff.A) {
			resp := api.Request("GET", "/pokemons").
				WithQuery("type", "GRASS").
				WithQuery("page", "2").
				WithQuery("limit", "1").
				Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			list := resp.BodyJson().([]interface{})
			biff.AssertEqual(len(list), 1)
			biff.AssertEqual(list[0].(JSON)["name"], "ivysaur")
		})

		a.Alternative("Page out of range", func(a *biff.A) {
			resp := api.Request("GET", "/pokemons").WithQuery("page", "9").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(strings.TrimSpace(resp.BodyString()), "[]")
		})

		a.Alternative("Unsupported filter", func(a *biff.A) {
			resp := api.Request("GET", "/pokemons").WithQuery("foo", "bar").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			biff.AssertEqual(resp.BodyString(), "Query foo is not allowed")
		})

		a.Alternative("Empty filter value is ignored", func(a *biff.A) {
			resp := api.Request("GET", "/pokemons").WithQuery("foo", "").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
		})

		a.Alternative("Invalid page", func(a *biff.A) {
			resp := api.Request("GET", "/pokemons").WithQuery("page", "abc").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Get with neighbours", func(a *biff.A) {
			resp := api.Request("GET", "/pokemons/1").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			body := resp.BodyJsonMap()
			biff.AssertEqual(body["pokemon"].(JSON)["name"], "bulba")
			biff.AssertEqual(body["previousPokemon"].(JSON)["name"], "charmander")
			biff.AssertEqual(body["nextPokemon"].(JSON)["name"], "ivysaur")
		})

		a.Alternative("Get wraps to the first pokemon", func(a *biff.A) {
			resp := api.Request("GET", "/pokemons/3").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			body := resp.BodyJsonMap()
			biff.AssertEqual(body["previousPokemon"].(JSON)["name"], "ivysaur")
			biff.AssertEqual(body["nextPokemon"].(JSON)["name"], "bulba")
		})

		a.Alternative("Get not found", func(a *biff.A) {
			resp := api.Request("GET", "/pokemons/99").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			biff.AssertEqual(resp.BodyString(), "Pokemon with ID 99 not found")
		})

		a.Alternative("Get malformed id", func(a *biff.A) {
			resp := api.Request("GET", "/pokemons/abc").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Create with three types", func(a *biff.A) {
			resp := api.Request("POST", "/pokemons").
				WithHeader("Content-Type", "application/json").
				WithBodyJson(JSON{
					"id":    10,
					"name":  "chimera",
					"types": []string{"grass", "fire", "water"},
					"url":   "http://img/10.png",
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			biff.AssertEqual(resp.BodyString(), "Pokemon can only have one or two types.")
		})

		a.Alternative("Create with missing data", func(a *biff.A) {
			resp := api.Request("POST", "/pokemons").
				WithHeader("Content-Type", "application/json").
				WithBodyJson(JSON{"name": "nobody"}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			biff.AssertEqual(resp.BodyString(), "Missing required data.")
		})

		a.Alternative("Create with invalid type", func(a *biff.A) {
			resp := api.Request("POST", "/pokemons").
				WithHeader("Content-Type", "application/json").
				WithBodyJson(JSON{"id": 10, "name": "x", "types": []string{"shadow"}, "url": "u"}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			biff.AssertEqual(resp.BodyString(), "Pokemon's type is invalid.")
		})

		a.Alternative("Create with malformed body", func(a *biff.A) {
			resp := api.Request("POST", "/pokemons").
				WithHeader("Content-Type", "application/json").
				WithBodyString(`{"id": `).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Create", func(a *biff.A) {
			resp := api.Request("POST", "/pokemons").
				WithHeader("Content-Type", "application/json").
				WithBodyJson(JSON{
					"id":    10,
					"name":  "Pikachu",
					"types": []string{"Electric"},
					"url":   "http://img/10.png",
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			created := resp.BodyJsonMap()
			biff.AssertEqual(created["name"], "pikachu")
			biff.AssertEqualJson(created["types"], []string{"electric"})
			biff.AssertEqual(created["category"], "")
			biff.AssertEqualJson(created["abilities"], []string{})

			a.Alternative("Get created", func(a *biff.A) {
				resp := api.Request("GET", "/pokemons/10").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				body := resp.BodyJsonMap()
				biff.AssertEqualJson(body["pokemon"], created)
				biff.AssertEqual(body["previousPokemon"].(JSON)["name"], "charmander")
				biff.AssertEqual(body["nextPokemon"].(JSON)["name"], "bulba")
			})

			a.Alternative("Create duplicate name", func(a *biff.A) {
				resp := api.Request("POST", "/pokemons").
					WithHeader("Content-Type", "application/json").
					WithBodyJson(JSON{"id": 11, "name": "PIKACHU", "types": []string{}, "url": "u"}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
				biff.AssertEqual(resp.BodyString(), "The Pokemon already exists.")
			})

			a.Alternative("Count grows", func(a *biff.A) {
				resp := api.Request("GET", "/pokemons").WithQuery("limit", "100").Do()

				biff.AssertEqual(len(resp.BodyJson().([]interface{})), 4)
			})
		})

		a.Alternative("Update", func(a *biff.A) {
			before := api.Request("GET", "/pokemons/3").Do().BodyJsonMap()["pokemon"].(JSON)

			resp := api.Request("PUT", "/pokemons/3").
				WithHeader("Content-Type", "application/json").
				WithBodyJson(JSON{
					"name":  "Charmy",
					"types": []string{"FIRE", "dragon"},
					"url":   "http://img/charmy.png",
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			updated := resp.BodyJsonMap()
			biff.AssertEqual(updated["name"], "charmy")
			biff.AssertEqualJson(updated["types"], []string{"fire", "dragon"})
			biff.AssertEqual(updated["url"], "http://img/charmy.png")
			biff.AssertEqualJson(updated["id"], before["id"])
			biff.AssertEqual(updated["category"], before["category"])
			biff.AssertEqualJson(updated["abilities"], before["abilities"])
			biff.AssertEqual(updated["height"], before["height"])
			biff.AssertEqual(updated["weight"], before["weight"])
		})

		a.Alternative("Update validation error", func(a *biff.A) {
			resp := api.Request("PUT", "/pokemons/3").
				WithHeader("Content-Type", "application/json").
				WithBodyJson(JSON{"name": "x", "url": "u"}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			biff.AssertEqual(resp.BodyString(), "Missing required data.")
		})

		a.Alternative("Update not found", func(a *biff.A) {
			resp := api.Request("PUT", "/pokemons/999").
				WithHeader("Content-Type", "application/json").
				WithBodyJson(JSON{"name": "x", "types": []string{"ice"}, "url": "u"}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			biff.AssertEqual(resp.BodyString(), "The Pokemon does not exist.")
		})

		a.Alternative("Delete", func(a *biff.A) {
			resp := api.Request("DELETE", "/pokemons/2").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJsonMap()["name"], "ivysaur")

			a.Alternative("Get deleted", func(a *biff.A) {
				resp := api.Request("GET", "/pokemons/2").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Neighbours skip the gap", func(a *biff.A) {
				resp := api.Request("GET", "/pokemons/1").Do()

				biff.AssertEqual(resp.BodyJsonMap()["nextPokemon"].(JSON)["name"], "charmander")
			})

			a.Alternative("Delete again", func(a *biff.A) {
				resp := api.Request("DELETE", "/pokemons/2").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Static image", func(a *biff.A) {
			resp := api.Request("GET", "/images/1.png").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyString(), "png")
		})

		a.Alternative("Health", func(a *biff.A) {
			resp := api.Request("GET", "/health").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJsonMap()["status"], "ok")
		})

		a.Alternative("Detailed health", func(a *biff.A) {
			resp := api.Request("GET", "/health/detailed").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			store := resp.BodyJsonMap()["checks"].(JSON)["store"].(JSON)
			biff.AssertEqualJson(store["totalPokemons"], 3)
		})

		a.Alternative("Metrics", func(a *biff.A) {
			api.Request("GET", "/pokemons").Do().BodyClose()

			resp := api.Request("GET", "/metrics").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			body := resp.BodyString()
			biff.AssertTrue(strings.Contains(body, "pokemons_total 3"))
			biff.AssertTrue(strings.Contains(body, `http_requests_total{method="GET",path="/pokemons",status="200"} 1`))
		})

		a.Alternative("Unknown route", func(a *biff.A) {
			resp := api.Request("GET", "/nope").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			biff.AssertEqual(resp.BodyString(), "Not Found")
		})
	})
}

func TestCSVMissing(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	log := logger.NewNop()

	store := repository.NewJSONStore(cfg.Storage.Path, seed.NewCSVLoader(cfg.Seed.CSVPath, cfg.Seed.ImageBaseURL, log), log)
	s, err := New(cfg, store, nil, log)
	biff.AssertNil(err)

	api := apitest.NewWithHandler(s.Handler())
	defer api.Destroy()

	resp := api.Request("GET", "/pokemons").Do()

	biff.AssertEqual(resp.StatusCode, http.StatusInternalServerError)
	biff.AssertTrue(strings.HasPrefix(resp.BodyString(), "An error occurred while reading the CSV file"))
}
