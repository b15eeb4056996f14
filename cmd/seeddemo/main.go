// cmd/seeddemo/main.go — Carga un dataset de demostración en la Realtime
// Database para desarrollo local (emulador o proyecto de pruebas).
// Uso: go run cmd/seeddemo/main.go
package main

import (
	"context"
	"fmt"
	"log"

	"emesanalytics/internal/config"
	"emesanalytics/internal/infra"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	client, err := infra.NewFirebaseDB(ctx, cfg)
	if err != nil {
		log.Fatalf("firebase connect error: %v", err)
	}

	fixtures := map[string]interface{}{
		"maestros/tipo_documentos": map[string]string{
			"RM": "Remision",
			"DV": "Devolucion",
			"NC": "Nota Credito",
		},
		"maestros/codigos_vendedores": map[string]string{
			"001": "Vendedor Demo Uno",
			"002": "Vendedor Demo Dos",
		},
		"maestros/vendedores_activos": []string{"Vendedor Demo Uno", "Vendedor Demo Dos"},
		"maestros/forma_pago_clientes": map[string]string{
			"01": "Contado",
			"02": "Credito 30",
		},
		"maestros/clientes_id": map[string]interface{}{
			"C100": map[string]interface{}{
				"cliente_nombre": "Farmacia Demo",
				"nit":            "900.123.456-7",
				"ciudad":         "Bogotá",
				"departamento":   "Cundinamarca",
				"estado":         "Activo",
				"zona":           "Norte",
				"forma_pago":     "01",
				"cupo_credito":   5000000,
			},
		},
		"ventas_vendedor": map[string]interface{}{
			"001": map[string]interface{}{
				"D0001": map[string]interface{}{
					"cliente":     "Farmacia Demo",
					"url":         "Farmacia Demo SAS",
					"nit":         "900.123.456-7",
					"fecha":       "20250702",
					"tipo":        "RM",
					"valor_bruto": 1500000,
					"descuento":   150000,
					"iva":         0,
					"forma_pago":  "01",
					"zona":        "Norte",
					"subzona":     "Chapinero",
				},
				"D0002": map[string]interface{}{
					"cliente":     "Farmacia Demo",
					"url":         "Farmacia Demo SAS",
					"nit":         "900.123.456-7",
					"fecha":       "20250715",
					"tipo":        "DV",
					"valor_bruto": -120000,
					"descuento":   0,
					"forma_pago":  "01",
					"zona":        "Norte",
				},
			},
		},
		"convenios": map[string]interface{}{
			"9001234567": map[string]interface{}{
				"client_name":  "Farmacia Demo",
				"razon":        "Farmacia Demo SAS",
				"seller_name":  "Vendedor Demo Uno",
				"estado":       "Confirmado",
				"rebate_pct":   0.05,
				"target_value": 20000000,
				"fecha_inicio": "2025-07-01",
				"fecha_fin":    "2025-09-30",
			},
		},
		"recibos_caja": map[string]interface{}{
			"RC001": map[string]interface{}{
				"id1":          "C100",
				"valor_recibo": 800000,
				"vendedor":     "Vendedor Demo Uno",
				"fecha":        "2025-07-20",
			},
		},
		"cuotas_vendedores": map[string]interface{}{
			"202507": map[string]interface{}{
				"Vendedor Demo Uno": 25000000,
				"Vendedor Demo Dos": 18000000,
			},
		},
		"num_clientes_por_vendedor": map[string]interface{}{
			"Vendedor Demo Uno": 42,
			"Vendedor Demo Dos": 35,
		},
		"analisis_vendedores": map[string]interface{}{
			"001": map[string]interface{}{
				"20250702": map[string]interface{}{
					"proveedores": map[string]float64{"LAB-A": 900000, "LAB-B": 450000},
					"clientes":    map[string]float64{"C100": 1350000},
					"productos":   map[string]float64{"P-01": 700000, "P-02": 650000},
				},
			},
		},
	}

	for ruta, datos := range fixtures {
		if err := client.NewRef(ruta).Set(ctx, datos); err != nil {
			log.Fatalf("seed error en %s: %v", ruta, err)
		}
		fmt.Printf("✅ %s\n", ruta)
	}
	fmt.Println("Dataset de demo cargado")
}
