package fleet_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cya/internal/database"
	"cya/internal/fleet"
	"cya/models"
)

var fixedNow = time.Unix(1700000000, 0)

func newTestService(opts ...fleet.Option) *fleet.Service {
	db := database.New(":memory:")
	repo := database.NewRepository(db)
	opts = append([]fleet.Option{
		fleet.WithHashCost(bcrypt.MinCost),
		fleet.WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	return fleet.NewService(repo, opts...)
}

func hostRequest(name string) models.RegisterHostRequest {
	return models.RegisterHostRequest{
		Name:           name,
		DistroID:       "ubuntu",
		DistroRelease:  "14.12",
		DistroCodename: "TRSUY",
		MemTotal:       5,
		CPUTotal:       5,
		CPUType:        "arm",
		APIKey:         "12345",
	}
}

func register(t *testing.T, s *fleet.Service, name string, containers ...models.ContainerProps) {
	t.Helper()
	req := hostRequest(name)
	req.Containers = containers
	_, err := s.RegisterHost(context.Background(), req)
	require.NoError(t, err)
}

func TestRegisterHost(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	req := hostRequest("host_1")
	req.Containers = []models.ContainerProps{{Name: "c1", MaxMemory: 10, DateCreated: 100}}
	h, err := s.RegisterHost(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "host_1", h.Name)
	assert.Equal(t, "ubuntu", h.DistroID)
	assert.True(t, h.Enlisted)
	require.Len(t, h.Containers, 1)
	assert.Equal(t, "c1", h.Containers[0].Name)
	assert.True(t, h.Containers[0].KeepRunning)

	hosts, err := s.ListHosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Empty(t, hosts[0].Containers)
}

func TestRegisterHost_Duplicate(t *testing.T) {
	s := newTestService()
	register(t, s, "host_1")

	_, err := s.RegisterHost(context.Background(), hostRequest("host_1"))
	assert.ErrorIs(t, err, fleet.ErrHostExists)
}

func TestRegisterHost_InvalidKey(t *testing.T) {
	s := newTestService()

	req := hostRequest("host_1")
	req.APIKey = string(make([]byte, 73))
	_, err := s.RegisterHost(context.Background(), req)
	assert.ErrorIs(t, err, fleet.ErrInvalidAPIKey)
}

func TestRegisterHost_NotEnlisted(t *testing.T) {
	s := newTestService(fleet.WithAutoEnlist(false))
	register(t, s, "host_1")

	h, err := s.GetHost(context.Background(), "host_1", false)
	require.NoError(t, err)
	assert.False(t, h.Enlisted)

	_, err = s.CreateContainer(context.Background(), models.CreateContainerRequest{
		Name: "c1", Template: "debian", Release: "jessie",
	})
	assert.ErrorIs(t, err, fleet.ErrNoHosts)
}

func TestVerifyHostKey(t *testing.T) {
	s := newTestService()
	register(t, s, "host_1")
	ctx := context.Background()

	assert.NoError(t, s.VerifyHostKey(ctx, "host_1", "12345"))
	assert.ErrorIs(t, s.VerifyHostKey(ctx, "host_1", "wrong"), fleet.ErrUnauthorized)
	assert.ErrorIs(t, s.VerifyHostKey(ctx, "missing", "12345"), fleet.ErrUnauthorized)
}

func TestUpdateHost(t *testing.T) {
	s := newTestService()
	register(t, s, "host_1")
	ctx := context.Background()

	cpus := 123
	require.NoError(t, s.UpdateHost(ctx, "host_1", models.UpdateHostRequest{CPUTotal: &cpus}))

	h, err := s.GetHost(ctx, "host_1", false)
	require.NoError(t, err)
	assert.Equal(t, 123, h.CPUTotal)
	assert.Equal(t, "ubuntu", h.DistroID)

	err = s.UpdateHost(ctx, "nope", models.UpdateHostRequest{CPUTotal: &cpus})
	assert.ErrorIs(t, err, fleet.ErrHostNotFound)
}

func TestUpdateHost_SyncContainers(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	register(t, s, "host_1", models.ContainerProps{Name: "gone", DateCreated: 50})
	for _, name := range []string{"kept", "pending"} {
		_, err := s.CreateContainer(ctx, models.CreateContainerRequest{Name: name, Template: "debian", Release: "jessie"})
		require.NoError(t, err)
	}
	built := int64(60)
	require.NoError(t, s.UpdateContainer(ctx, "host_1", "kept", models.UpdateContainerRequest{DateCreated: &built}))
	require.NoError(t, s.RecreateContainer(ctx, "host_1", "kept"))

	reported := []models.ContainerProps{
		{Name: "kept", MaxMemory: 64, DateCreated: 70},
		{Name: "new", DateCreated: 80},
	}
	require.NoError(t, s.UpdateHost(ctx, "host_1", models.UpdateHostRequest{Containers: &reported}))

	h, err := s.GetHost(ctx, "host_1", true)
	require.NoError(t, err)

	names := make(map[string]models.Container)
	for _, c := range h.Containers {
		names[c.Name] = c
	}
	assert.NotContains(t, names, "gone")
	assert.Contains(t, names, "pending")
	assert.Contains(t, names, "new")
	require.Contains(t, names, "kept")
	assert.False(t, names["kept"].ReCreate)
	assert.Equal(t, int64(70), names["kept"].DateCreated)
	assert.Equal(t, int64(64), names["kept"].MaxMemory)
}

func TestDeleteHost(t *testing.T) {
	s := newTestService()
	register(t, s, "host_1", models.ContainerProps{Name: "c1"})
	ctx := context.Background()

	require.NoError(t, s.DeleteHost(ctx, "host_1"))

	hosts, err := s.ListHosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, hosts)

	assert.ErrorIs(t, s.DeleteHost(ctx, "host_1"), fleet.ErrHostNotFound)
	assert.ErrorIs(t, s.RemoveContainer(ctx, "host_1", "c1"), fleet.ErrHostNotFound)
}

func TestCreateContainer_BestHost(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	register(t, s, "a", models.ContainerProps{Name: "x"}, models.ContainerProps{Name: "y"})
	register(t, s, "b", models.ContainerProps{Name: "z"})
	register(t, s, "c", models.ContainerProps{Name: "w"})

	resp, err := s.CreateContainer(ctx, models.CreateContainerRequest{
		Name: "web", Template: "ubuntu-cloud", Release: "trusty", MaxMemory: 512,
	})
	require.NoError(t, err)
	assert.Equal(t, "b", resp.Host)
	assert.Equal(t, fixedNow.Unix(), resp.Container.DateRequested)
	assert.True(t, resp.Container.KeepRunning)
	assert.False(t, resp.Container.ReCreate)

	// b now has two; c is the least loaded.
	resp, err = s.CreateContainer(ctx, models.CreateContainerRequest{
		Name: "db", Template: "debian", Release: "jessie",
	})
	require.NoError(t, err)
	assert.Equal(t, "c", resp.Host)
}

func TestCreateContainer_Validation(t *testing.T) {
	s := newTestService()
	register(t, s, "a")
	ctx := context.Background()

	_, err := s.CreateContainer(ctx, models.CreateContainerRequest{Name: "c", Template: "centos", Release: "7"})
	assert.ErrorIs(t, err, fleet.ErrInvalidTemplate)

	_, err = s.CreateContainer(ctx, models.CreateContainerRequest{Name: "c", Template: "debian", Release: "trusty"})
	assert.ErrorIs(t, err, fleet.ErrInvalidRelease)
}

func TestCreateContainer_Duplicate(t *testing.T) {
	s := newTestService()
	register(t, s, "a")
	ctx := context.Background()
	req := models.CreateContainerRequest{Name: "c", Template: "debian", Release: "jessie"}

	_, err := s.CreateContainer(ctx, req)
	require.NoError(t, err)
	_, err = s.CreateContainer(ctx, req)
	assert.ErrorIs(t, err, fleet.ErrContainerExists)
}

func TestContainerLifecycle(t *testing.T) {
	s := newTestService()
	register(t, s, "host-1")
	ctx := context.Background()

	_, err := s.CreateContainer(ctx, models.CreateContainerRequest{Name: "web-app", Template: "debian", Release: "jessie"})
	require.NoError(t, err)
	built := int64(10)
	require.NoError(t, s.UpdateContainer(ctx, "host-1", "web-app", models.UpdateContainerRequest{DateCreated: &built}))

	get := func() models.Container {
		h, err := s.GetHost(ctx, "host-1", true)
		require.NoError(t, err)
		require.Len(t, h.Containers, 1)
		return h.Containers[0]
	}

	require.NoError(t, s.SetContainerState(ctx, "host-1", "web-app", false))
	assert.False(t, get().KeepRunning)
	require.NoError(t, s.SetContainerState(ctx, "host-1", "web-app", true))
	assert.True(t, get().KeepRunning)

	require.NoError(t, s.RecreateContainer(ctx, "host-1", "web-app"))
	assert.True(t, get().ReCreate)

	// An older creation date does not satisfy the re-create.
	older := int64(5)
	require.NoError(t, s.UpdateContainer(ctx, "host-1", "web-app", models.UpdateContainerRequest{DateCreated: &older}))
	assert.True(t, get().ReCreate)

	newer := int64(20)
	require.NoError(t, s.UpdateContainer(ctx, "host-1", "web-app", models.UpdateContainerRequest{DateCreated: &newer}))
	c := get()
	assert.False(t, c.ReCreate)
	assert.Equal(t, int64(20), c.DateCreated)

	require.NoError(t, s.RemoveContainer(ctx, "host-1", "web-app"))
	h, err := s.GetHost(ctx, "host-1", true)
	require.NoError(t, err)
	assert.Empty(t, h.Containers)
}

func TestContainerNotFound(t *testing.T) {
	s := newTestService()
	register(t, s, "host-1")
	ctx := context.Background()

	assert.ErrorIs(t, s.RemoveContainer(ctx, "host-1", "nope"), fleet.ErrContainerNotFound)
	assert.ErrorIs(t, s.RecreateContainer(ctx, "host-1", "nope"), fleet.ErrContainerNotFound)
	assert.ErrorIs(t, s.SetContainerState(ctx, "host-1", "nope", true), fleet.ErrContainerNotFound)
	assert.ErrorIs(t, s.SetContainerState(ctx, "other", "nope", true), fleet.ErrHostNotFound)
}

func TestRecreateContainer_ReportedOnly(t *testing.T) {
	s := newTestService()
	register(t, s, "host-1", models.ContainerProps{Name: "web-app", DateCreated: 10})
	ctx := context.Background()

	err := s.RecreateContainer(ctx, "host-1", "web-app")
	assert.ErrorIs(t, err, fleet.ErrNotRecreatable)

	h, err := s.GetHost(ctx, "host-1", true)
	require.NoError(t, err)
	require.Len(t, h.Containers, 1)
	assert.False(t, h.Containers[0].ReCreate)
}

func TestSetEnlisted(t *testing.T) {
	s := newTestService(fleet.WithAutoEnlist(false))
	register(t, s, "host_1")
	ctx := context.Background()
	req := models.CreateContainerRequest{Name: "c1", Template: "debian", Release: "jessie"}

	_, err := s.CreateContainer(ctx, req)
	require.ErrorIs(t, err, fleet.ErrNoHosts)

	require.NoError(t, s.SetEnlisted(ctx, "host_1", true))
	h, err := s.GetHost(ctx, "host_1", false)
	require.NoError(t, err)
	assert.True(t, h.Enlisted)
	assert.Equal(t, 5, h.CPUTotal, "other fields untouched")

	resp, err := s.CreateContainer(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "host_1", resp.Host)

	require.NoError(t, s.SetEnlisted(ctx, "host_1", false))
	req.Name = "c2"
	_, err = s.CreateContainer(ctx, req)
	assert.ErrorIs(t, err, fleet.ErrNoHosts)

	assert.ErrorIs(t, s.SetEnlisted(ctx, "nope", true), fleet.ErrHostNotFound)
}
