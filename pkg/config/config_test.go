package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/kardex-erp/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.19", cfg.Sales.TaxRate.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PORT", "5433")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("APP_ENV", "production")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "production", cfg.App.Env)
}

func TestLoad_PuertoNoNumericoCaeAlDefault(t *testing.T) {
	t.Setenv("DB_PORT", "abc")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.DB.Port, "un puerto no numérico no debe quedar en 0")
}

func TestLoad_TasaDeImpuestoInvalidaFalla(t *testing.T) {
	t.Setenv("SALES_TAX_RATE", "no-es-numero")

	_, err := config.Load()
	assert.Error(t, err)
}
