// Command redigo starts the actor-per-key store: load config, start the
// directory actor, accept connections. Each connection gets its own
// goroutine; each key gets its own actor goroutine spawned lazily by the
// directory.
package main

import (
	"net"
	"os"

	"redigo/envs"
	"redigo/internal/conn"
	"redigo/internal/directory"
	"redigo/internal/logging"
)

func main() {
	envs.LoadEnv()
	config := envs.Gets()

	log := logging.New(os.Stdout, logging.ParseLevel(config.LogLevel))

	dir := directory.New(directory.Config{
		ActorMailboxSize:     config.ActorMailboxSize,
		BlockTimeoutFallback: config.BlockTimeoutFallback,
		SetFanoutTimeout:     config.SetFanoutTimeout,
		CollectorTimeout:     config.CollectorTimeout,
	})
	go dir.Run()

	addr := net.JoinHostPort(config.Host, config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Errorf("failed to listen on %s: %v", addr, err)
		os.Exit(1)
	}
	defer listener.Close()
	log.Infof("redigo listening on %s", addr)

	handler := conn.New(dir.Mailbox(), log)
	for {
		c, err := listener.Accept()
		if err != nil {
			log.Warnf("accept error: %v", err)
			continue
		}
		go handler.Serve(c)
	}
}
