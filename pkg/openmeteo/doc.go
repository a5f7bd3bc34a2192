// Package openmeteo fetches the inputs for a tide brief from the Open-Meteo
// APIs. The marine endpoint supplies the hourly sea level series, the UTC
// offset and the daily wave table; the forecast endpoint supplies the daily
// wind and sunrise/sunset table. All timestamps are local wall-clock strings
// for the requested location.
package openmeteo
