package main

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const apiVersion = "0.1.0"

type jsonResponseData struct {
	ApiVersion string                 `json:"api_version"`
	Endpoint   string                 `json:"endpoint"`
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Data       map[string]interface{} `json:"data"`
}

func newJSONResponse(endpoint string) jsonResponseData {
	return jsonResponseData{ApiVersion: apiVersion, Endpoint: endpoint, Success: false, Data: make(map[string]interface{})}
}

func apiV1Handler(deps *Dependencies) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		params := mux.Vars(r)
		endpoint := params["endpoint"]

		sublog := zerolog.Ctx(ctx).With().Str("api_version", apiVersion).Str("endpoint", endpoint).Logger()
		jsonResponse := newJSONResponse(endpoint)
		status := http.StatusOK
		records := deps.dashboard.Records

		switch endpoint {
		case "version":
			jsonResponse.Success = true
			jsonResponse.Message = "ok"
			jsonResponse.Data["source"] = deps.dashboard.Source
			jsonResponse.Data["loaded_at"] = deps.dashboard.LoadedAt

		case "data":
			jsonResponse.Success = true
			jsonResponse.Message = "ok"
			jsonResponse.Data["records"] = records
			jsonResponse.Data["count"] = records.Count()

		case "companies":
			jsonResponse.Success = true
			jsonResponse.Message = "ok"
			jsonResponse.Data["companies"] = records.Companies()

		case "quarters":
			jsonResponse.Success = true
			jsonResponse.Message = "ok"
			jsonResponse.Data["quarters"] = records.QuarterLabels()

		default:
			sublog.Error().Err(fmt.Errorf("failure: call to unknown api endpoint")).Msg("api call failed")
			jsonResponse.Message = "Failure: unknown endpoint"
			status = http.StatusNotFound
		}

		renderJSON(w, deps, sublog, status, jsonResponse)
	})
}

func apiCompanyHandler(deps *Dependencies) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		params := mux.Vars(r)
		company := params["company"]

		sublog := zerolog.Ctx(ctx).With().Str("api_version", apiVersion).Str("company", company).Logger()
		jsonResponse := newJSONResponse("company")

		subset := deps.dashboard.Records.ForCompany(company)
		if subset.Count() == 0 {
			sublog.Warn().Msg("company not found")
			jsonResponse.Message = fmt.Sprintf("Company '%s' not found", company)
			renderJSON(w, deps, sublog, http.StatusNotFound, jsonResponse)
			return
		}

		jsonResponse.Success = true
		jsonResponse.Message = "ok"
		jsonResponse.Data["company"] = company
		jsonResponse.Data["records"] = subset
		jsonResponse.Data["count"] = subset.Count()
		renderJSON(w, deps, sublog, http.StatusOK, jsonResponse)
	})
}

// dataHandler serves the bare record list, as the dashboard's first API did.
func dataHandler(deps *Dependencies) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderJSON(w, deps, *zerolog.Ctx(r.Context()), http.StatusOK, deps.dashboard.Records)
	})
}

func indexHandler(deps *Dependencies) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderJSON(w, deps, *zerolog.Ctx(r.Context()), http.StatusOK, map[string]string{
			"message":  deps.config.Dashboard.Title + " API is running",
			"dash_url": "/dashboard/",
			"docs_url": "/api/v1/version",
		})
	})
}

func healthHandler(deps *Dependencies) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderJSON(w, deps, *zerolog.Ctx(r.Context()), http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"records": deps.dashboard.Records.Count(),
			"source":  deps.dashboard.Source,
		})
	})
}
