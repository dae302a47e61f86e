package main

import "autoclient/internal/app"

// @title           AutoClient API
// @version         1.0
// @description     Backend para talleres: clientes, vehículos, servicios, facturas y notificaciones.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
