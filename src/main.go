package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vinniebhanu2021/priority-queue-lift/src/config"
	"github.com/vinniebhanu2021/priority-queue-lift/src/dispatcher"
	"github.com/vinniebhanu2021/priority-queue-lift/src/logging"
	"github.com/vinniebhanu2021/priority-queue-lift/src/types"
)

const baseTick = 400 * time.Millisecond

var log = logging.GetLoggerConfigured(zerolog.InfoLevel)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	scenario := flag.String("scenario", "preemption", "scripted scenario: preemption | single")
	interactive := flag.Bool("interactive", false, "drive the engine from the keyboard")
	flag.Parse()

	// A .env file may carry LIFT_* overrides; absence is fine.
	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("config load failed")
		}
		cfg = loaded
	}
	cfg.FromEnv()

	if *interactive {
		runInteractive(cfg)
		return
	}
	switch *scenario {
	case "single":
		runSingleEmergency(cfg)
	default:
		runPreemption(cfg)
	}
}

// runPreemption walks the comprehensive pre-emption scenario: three normal
// calls, two emergencies, and a trace until everything is served.
func runPreemption(cfg config.Config) {
	cfg.StartFloor = 3
	cfg.StartDirection = "UP"
	engine := dispatcher.New(cfg)

	fmt.Println("=== Emergency pre-emption scenario ===")
	engine.AddExternalRequest(4, types.DirUp)
	engine.AddExternalRequest(6, types.DirDown)
	engine.AddExternalRequest(7, types.DirUp)
	engine.AddEmergencyRequest(4, 10)
	engine.AddEmergencyRequest(2, 1)

	runTrace(engine, 60)
	printStats(engine)
}

// runSingleEmergency reproduces the short single-emergency run: one cab
// request, one emergency that pre-empts it.
func runSingleEmergency(cfg config.Config) {
	cfg.StartFloor = 5
	cfg.StartDirection = "UP"
	engine := dispatcher.New(cfg)

	fmt.Println("=== Single emergency scenario ===")
	engine.AddInternalRequest(8)
	engine.AddEmergencyRequest(2, 9)

	runTrace(engine, 40)
	printStats(engine)
}

func runTrace(engine *dispatcher.Engine, maxSteps int) {
	for step := 1; step <= maxSteps; step++ {
		arrived, event := engine.Update()
		if arrived {
			status := engine.Status()
			mode := "OK"
			if status.EmergencyMode {
				mode = "!!"
			}
			fmt.Printf("step %2d: %s\n", step, event)
			fmt.Printf("         [%s] floor=%d dir=%s doors=%s\n",
				mode, status.Floor, status.Direction, status.Doors)
		}

		status := engine.Status()
		done := !status.EmergencyMode && !status.HasTarget &&
			len(status.Requests.Internal) == 0 &&
			len(status.Requests.ExternalUp) == 0 &&
			len(status.Requests.ExternalDown) == 0 &&
			status.Doors == types.DoorClosed
		if done && step > 1 {
			fmt.Println("all requests served")
			return
		}
	}
}

func printStats(engine *dispatcher.Engine) {
	detailed := engine.DetailedStatus()
	p := message.NewPrinter(language.English)
	p.Printf("\nfloors traveled:   %d\n", detailed.Stats.FloorsTraveled)
	p.Printf("normal served:     %d\n", detailed.Stats.NormalServed)
	p.Printf("emergency served:  %d\n", detailed.Stats.EmergencyServed)
	p.Printf("total served:      %d\n", detailed.Stats.RequestsServed)
	p.Printf("average wait:      %v\n", detailed.Stats.AverageWait.Round(time.Millisecond))
}

// runInteractive drives the engine from the keyboard:
//
//	0-9    select a floor (0 means 10)
//	i      internal request at the selected floor
//	u / d  external up/down call at the selected floor
//	e      first press arms the pickup floor, second press submits
//	       an emergency from the armed floor to the selected one
//	space  toggle pause, +/- speed, q quit
func runInteractive(cfg config.Config) {
	engine := dispatcher.New(cfg)

	if err := keyboard.Open(); err != nil {
		log.Fatal().Err(err).Msg("keyboard unavailable")
	}
	defer keyboard.Close()

	keys := make(chan rune)
	go func() {
		for {
			ch, key, err := keyboard.GetKey()
			if err != nil {
				close(keys)
				return
			}
			if key == keyboard.KeySpace {
				ch = ' '
			}
			if key == keyboard.KeyEsc {
				ch = 'q'
			}
			keys <- ch
		}
	}()

	selected := 1
	emergencyFrom := 0
	ticker := time.NewTicker(baseTick)
	defer ticker.Stop()

	fmt.Println("interactive mode: 0-9 select floor, i/u/d request, e emergency, space pause, q quit")
	for {
		select {
		case <-ticker.C:
			if _, event := engine.Update(); event != "" {
				fmt.Println(event)
			}
			status := engine.Status()
			fmt.Printf("\rfloor=%d dir=%s doors=%s pax=%d/%d sel=%d   ",
				status.Floor, status.Direction, status.Doors,
				status.Passengers, status.Capacity, selected)
			ticker.Reset(time.Duration(float64(baseTick) / engine.Speed()))

		case ch, ok := <-keys:
			if !ok {
				return
			}
			switch {
			case ch >= '1' && ch <= '9':
				selected = int(ch - '0')
			case ch == '0':
				selected = 10
			case ch == 'i':
				engine.AddInternalRequest(selected)
			case ch == 'u':
				engine.AddExternalRequest(selected, types.DirUp)
			case ch == 'd':
				engine.AddExternalRequest(selected, types.DirDown)
			case ch == 'e':
				if emergencyFrom == 0 {
					emergencyFrom = selected
					fmt.Printf("\nemergency armed from floor %d\n", emergencyFrom)
				} else {
					engine.AddEmergencyRequest(emergencyFrom, selected)
					emergencyFrom = 0
				}
			case ch == ' ':
				engine.TogglePause()
			case ch == '+':
				engine.SetSpeed(engine.Speed() + 0.2)
			case ch == '-':
				engine.SetSpeed(engine.Speed() - 0.2)
			case ch == 'q':
				fmt.Println()
				printStats(engine)
				return
			}
		}
	}
}
