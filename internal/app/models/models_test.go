package models

import (
	"reflect"
	"testing"
	"time"

	"github.com/DeltaGMU/PCA-PrimaryServer-sub000/internal/app/carewindow"
)

func strPtr(s string) *string { return &s }

func TestNotificationAddresses(t *testing.T) {
	type testcase struct {
		contact EmployeeContactInfo
		want    []string
	}

	for name, testcase := range map[string]testcase{
		"primary only": {
			contact: EmployeeContactInfo{PrimaryEmail: "a@pca.local", EnablePrimaryEmailNotifications: true},
			want:    []string{"a@pca.local"},
		},
		"both enabled": {
			contact: EmployeeContactInfo{
				PrimaryEmail: "a@pca.local", SecondaryEmail: strPtr("b@pca.local"),
				EnablePrimaryEmailNotifications: true, EnableSecondaryEmailNotifications: true,
			},
			want: []string{"a@pca.local", "b@pca.local"},
		},
		"secondary enabled but missing": {
			contact: EmployeeContactInfo{PrimaryEmail: "a@pca.local", EnableSecondaryEmailNotifications: true},
			want:    nil,
		},
		"all disabled": {
			contact: EmployeeContactInfo{PrimaryEmail: "a@pca.local", SecondaryEmail: strPtr("b@pca.local")},
			want:    nil,
		},
	} {
		t.Run(name, func(t *testing.T) {
			if got := testcase.contact.NotificationAddresses(); !reflect.DeepEqual(got, testcase.want) {
				t.Errorf("got %v, want %v", got, testcase.want)
			}
		})
	}
}

func TestStudentCareHoursDuration(t *testing.T) {
	rec := StudentCareHours{
		CheckInTime:  carewindow.MustParseClock("15:10"),
		CheckOutTime: carewindow.MustParseClock("17:45"),
	}
	if got, want := rec.Duration(), 2*time.Hour+35*time.Minute; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResetTokenExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	token := ResetToken{Exp: now.Unix()}
	if !token.Expired(now) {
		t.Error("token at its expiry second should be expired")
	}
	if token.Expired(now.Add(-time.Second)) {
		t.Error("token before its expiry should be valid")
	}
}
