// Command tidebrief prints today's tide brief for a city or coordinate and
// exits. Useful for cron jobs and for poking at the pipeline without the
// server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/AntIg86/TideTimeBot/pkg/geocode"
	"github.com/AntIg86/TideTimeBot/pkg/openmeteo"
	"github.com/AntIg86/TideTimeBot/pkg/service"
)

func main() {
	city := flag.String("city", "", "city to look up")
	lat := flag.Float64("lat", 0, "latitude, used when -city is not given")
	lon := flag.Float64("lon", 0, "longitude, used when -city is not given")
	timeout := flag.Duration("timeout", 10*time.Second, "upstream request timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*(*timeout))
	defer cancel()

	svc := service.New(geocode.NewClient(*timeout), openmeteo.NewClient(*timeout), nil)

	if *city != "" {
		res, place, err := svc.BriefForCity(ctx, *city)
		if err != nil {
			log.Fatalf("failed to build brief for %q: %v", *city, err)
		}
		fmt.Printf("%s, %s (%s)\n", place.Name, place.Country, res.Date)
		if res.Sparkline != "" {
			fmt.Println(res.Sparkline)
		}
		fmt.Println(res.String())
		return
	}

	res, err := svc.Brief(ctx, *lat, *lon)
	if err != nil {
		log.Fatalf("failed to build brief for %f,%f: %v", *lat, *lon, err)
	}
	fmt.Printf("%f,%f (%s)\n", *lat, *lon, res.Date)
	if res.Sparkline != "" {
		fmt.Println(res.Sparkline)
	}
	fmt.Println(res.String())
}
