package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mchmarny/bendable/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	dir := t.TempDir()

	c1, err := ReadOrCreate(dir)
	require.NoError(t, err)
	require.NotNil(t, c1)
	assert.Equal(t, DefaultProfileName, c1.DefaultProfile)
	assert.Equal(t, DriverSQLite, c1.Store.Driver)

	c1.LogLevel = "debug"
	c1.Profiles["timetable"] = &score.Definition{HardLevels: 2, SoftLevels: 3}

	require.NoError(t, Save(dir, c1))

	c2, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", c2.LogLevel)

	p, err := c2.Profile("timetable")
	require.NoError(t, err)
	assert.Equal(t, 2, p.HardLevels)
	assert.Equal(t, 3, p.SoftLevels)
	assert.Equal(t, []string{"default", "timetable"}, c2.ProfileNames())
}

func TestReadOrCreate_CreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	_, err := ReadOrCreate(dir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, configFileName))
	assert.NoError(t, err)
}

func TestReadOrCreate_EmptyDir(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)
}

func TestReadOrCreate_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	content := "profiles:\n  bad:\n    hard: -1\n    soft: 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), fileMode))

	_, err := ReadOrCreate(dir)
	assert.Error(t, err)
}

func TestProfile_Default(t *testing.T) {
	c := getDefaultConfig()
	p, err := c.Profile("")
	require.NoError(t, err)
	assert.Equal(t, "[0]hard/[0]soft", p.Zero().String())

	_, err = c.Profile("missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"postgres driver", func(c *Config) { c.Store.Driver = DriverPostgres }, false},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, true},
		{"missing default profile", func(c *Config) { c.DefaultProfile = "nope" }, true},
		{"negative levels", func(c *Config) { c.Profiles["x"] = &score.Definition{HardLevels: -1} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := getDefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSave_Errors(t *testing.T) {
	assert.Error(t, Save("", getDefaultConfig()))
	assert.Error(t, Save(t.TempDir(), nil))
}
