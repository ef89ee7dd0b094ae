package domain

import (
	"reflect"
	"testing"
)

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		service Service
		want    []string
	}{
		{
			name: "complete draft",
			service: Service{
				Owner: "alice", Name: "nas",
				PublicIP: "nas.example.com", PrivateIP: "10.0.0.1",
			},
			want: nil,
		},
		{
			name:    "empty draft",
			service: Service{},
			want:    []string{"name", "public_ip", "private_ip", "service_owner"},
		},
		{
			name: "missing private address",
			service: Service{
				Owner: "alice", Name: "nas", PublicIP: "nas.example.com",
			},
			want: []string{"private_ip"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.service.MissingFields()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingFields() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDraft(t *testing.T) {
	if !(Service{Name: "nas"}).Draft() {
		t.Error("service without id should be a draft")
	}
	if (Service{ID: "7", Name: "nas"}).Draft() {
		t.Error("service with id should not be a draft")
	}
}

func TestStatusSettled(t *testing.T) {
	if StatusChecking.Settled() {
		t.Error("checking should not be settled")
	}
	if !StatusActive.Settled() || !StatusInactive.Settled() {
		t.Error("active and inactive should be settled")
	}
}

func TestSessionEmpty(t *testing.T) {
	if !(Session{User: User{Username: "alice"}}).Empty() {
		t.Error("session without access token should be empty")
	}
	if (Session{AccessToken: "A1"}).Empty() {
		t.Error("session with access token should not be empty")
	}
}
