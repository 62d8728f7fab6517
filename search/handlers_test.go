package search

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestSearchTripsRequiresAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/search/trips?q=paris", nil)
	w := httptest.NewRecorder()

	SearchTrips(w, req, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestIndexedResultsFilterScopesToUser(t *testing.T) {
	filter := indexedResultsFilter("u1", []string{"t1", "t2"})

	or, ok := filter["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("missing ownership clause: %v", filter)
	}
	if or[0]["user_id"] != "u1" || or[1]["collaborators"] != "u1" {
		t.Fatalf("ownership clause does not name the requesting user: %v", or)
	}

	in, ok := filter["tripid"].(bson.M)
	if !ok {
		t.Fatalf("missing tripid clause: %v", filter)
	}
	ids, ok := in["$in"].([]string)
	if !ok || len(ids) != 2 {
		t.Fatalf("expected indexed ids in filter, got %v", in)
	}
}

func TestFallbackFilterScopesToUser(t *testing.T) {
	filter := fallbackFilter("u1", "paris")

	and, ok := filter["$and"].([]bson.M)
	if !ok || len(and) != 2 {
		t.Fatalf("expected ownership and text clauses, got %v", filter)
	}

	or, ok := and[0]["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("missing ownership clause: %v", and[0])
	}
	if or[0]["user_id"] != "u1" || or[1]["collaborators"] != "u1" {
		t.Fatalf("ownership clause does not name the requesting user: %v", or)
	}

	text, ok := and[1]["$or"].([]bson.M)
	if !ok || len(text) != 2 {
		t.Fatalf("missing name/destination clause: %v", and[1])
	}
}
