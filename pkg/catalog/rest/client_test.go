package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"finverse-be/internal/entity"
	"finverse-be/internal/pkg/apperr"
)

func TestGetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/cc-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "cc-1",
			"name":          "Platinum Card",
			"categoryId":    "credit-cards",
			"institutionId": "inst-1",
			"details": map[string]interface{}{
				"annualFee": 7500,
				"rewards":   []string{"air miles", "cashback"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0)
	product, err := client.GetProduct(context.Background(), "cc-1")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}

	if product.Name != "Platinum Card" || product.CategoryId != "credit-cards" {
		t.Errorf("product = %+v", product)
	}
	if fee := product.Detail("annualFee"); fee.Kind != entity.ValueNumber || fee.Number != 7500 {
		t.Errorf("annualFee = %+v", fee)
	}
	if rewards := product.Detail("rewards"); rewards.Kind != entity.ValueList || len(rewards.List) != 2 {
		t.Errorf("rewards = %+v", rewards)
	}
}

func TestGetProductNilDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "x", "name": "Bare"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0)
	product, err := client.GetProduct(context.Background(), "x")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if product.Details == nil {
		t.Error("details must never be nil")
	}
}

func TestGetProductUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0)
	_, err := client.GetProduct(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrEntityFetchFailed) {
		t.Fatalf("err = %v, want ErrEntityFetchFailed", err)
	}
}

func TestGetOrganization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orgs/inst-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("auth = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "inst-1", "name": "Ceylon National Bank"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", 0)
	org, err := client.GetOrganization(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("GetOrganization: %v", err)
	}
	if org.Name != "Ceylon National Bank" {
		t.Errorf("org = %+v", org)
	}
}

func TestGetOrganizationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0)
	_, err := client.GetOrganization(context.Background(), "inst-1")
	if !errors.Is(err, apperr.ErrOwnerLookupFailed) {
		t.Fatalf("err = %v, want ErrOwnerLookupFailed", err)
	}
}
