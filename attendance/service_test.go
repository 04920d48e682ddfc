package attendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-gym-console/attendance"
	"github.com/jrsteele09/go-gym-console/session"
	"github.com/jrsteele09/go-gym-console/session/repofake"
	"github.com/jrsteele09/go-gym-console/transport"
	"github.com/jrsteele09/go-gym-console/users"
	"github.com/jrsteele09/go-gym-console/viewstate"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, handler http.Handler) (*attendance.Service, map[string]int) {
	t.Helper()
	hits := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits[r.Method+" "+r.URL.Path]++
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	store, err := session.NewStore(repofake.New())
	require.NoError(t, err)
	require.NoError(t, store.Set(users.User{ID: "user-1", Role: users.RoleStaff}, "tok_abc"))

	api, err := transport.New(srv.URL, store)
	require.NoError(t, err)

	service, err := attendance.NewService(api, viewstate.New())
	require.NoError(t, err)
	return service, hits
}

func TestService_CheckInRefreshesAttendanceAndDashboard(t *testing.T) {
	service, hits := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/attendance/check-in":
			_ = json.NewEncoder(w).Encode(attendance.Record{ID: "att-1", MemberID: "m-1", CheckInTime: "09:00"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []attendance.Record{}})
		}
	}))

	_, err := service.ListByDate(context.Background(), "2024-06-01")
	require.NoError(t, err)

	record, err := service.CheckIn(context.Background(), "m-1", "")
	require.NoError(t, err)
	require.Equal(t, "09:00", record.CheckInTime)

	_, err = service.ListByDate(context.Background(), "2024-06-01")
	require.NoError(t, err)
	require.Equal(t, 2, hits["GET /attendance"], "check-in must invalidate attendance reads")
}

func TestService_CheckInRequiresMember(t *testing.T) {
	service, hits := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := service.CheckIn(context.Background(), "", "")
	require.True(t, transport.IsValidation(err))
	require.Empty(t, hits)
}

func TestService_CheckInByQR(t *testing.T) {
	service, hits := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["qr_code"] != "MEMBER-m-1" {
			http.Error(w, `{"message":"Member not found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(attendance.Record{ID: "att-1", MemberID: "m-1", CheckInMethod: attendance.MethodQRCode})
	}))

	t.Run("blank scan never reaches the server", func(t *testing.T) {
		_, err := service.CheckInByQR(context.Background(), "   ")
		require.True(t, transport.IsValidation(err))
		require.Contains(t, transport.FieldErrors(err), "qr_code")
		require.Empty(t, hits)
	})

	t.Run("valid scan checks the member in", func(t *testing.T) {
		record, err := service.CheckInByQR(context.Background(), "MEMBER-m-1")
		require.NoError(t, err)
		require.Equal(t, attendance.MethodQRCode, record.CheckInMethod)
	})

	t.Run("unknown code surfaces the server rejection", func(t *testing.T) {
		_, err := service.CheckInByQR(context.Background(), "MEMBER-nope")
		require.Error(t, err)
		require.True(t, transport.IsClientError(err))
	})
}

func TestService_DailyStatsDegradesToZeros(t *testing.T) {
	t.Run("server failure yields zeroed stats, not an error", func(t *testing.T) {
		service, _ := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
		}))
		stats := service.DailyStats(context.Background(), "2024-06-01")
		require.Equal(t, attendance.DailyStats{}, stats)
	})

	t.Run("healthy fetch passes through", func(t *testing.T) {
		service, _ := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(attendance.DailyStats{TotalCheckins: 12, StillInside: 4, CheckedOut: 8})
		}))
		stats := service.DailyStats(context.Background(), "")
		require.Equal(t, 12, stats.TotalCheckins)
		require.Equal(t, 4, stats.StillInside)
	})
}
