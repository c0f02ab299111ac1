// Docker-Based Engine Execution
//
// Copyright (c) 2026  The go-hlt authors
//
// This file is part of go-hlt.
//
// go-hlt is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-hlt is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-hlt. If not, see
// <http://www.gnu.org/licenses/>

package isol

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go-hlt"
	"go-hlt/match"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/pkg/errors"
)

// Mount point of the working directory inside the container.  The
// engine, the bot binaries and the replay it writes all live here.
const arena = "/arena"

type docker struct {
	image string
}

func MakeDocker(image string) Engine { return &docker{image: image} }

func (d *docker) String() string { return "Docker Runner (" + d.image + ")" }

func (d *docker) Run(ctx context.Context, argv []string) ([]byte, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		return nil, err
	}
	defer cli.Close()

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	// The documentation for the library is sparse, but it is also
	// just a wrapper around a HTTP API.  To understand what this
	// configuration does, it is necessary to read
	// https://docs.docker.com/engine/api/v1.41/#operation/ContainerCreate
	resp, err := cli.ContainerCreate(ctx, &container.Config{
		Image:      d.image,
		Cmd:        argv,
		WorkingDir: arena,
	}, &container.HostConfig{
		Binds:       []string{wd + ":" + arena},
		NetworkMode: "none",
		Resources: container.Resources{
			Memory: 2 * 1024 * 1024 * 1024,
		},
	}, nil, nil, fmt.Sprintf("hlt-%d", time.Now().UnixNano()))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create container %s", d.image)
	}
	defer func() {
		bg := context.Background()
		err := cli.ContainerRemove(bg, resp.ID, types.ContainerRemoveOptions{
			Force: true,
		})
		if err != nil {
			hlt.Debug.Print(err)
		}
	}()

	if err := cli.ContainerStart(ctx, resp.ID, types.ContainerStartOptions{}); err != nil {
		return nil, errors.Wrapf(err, "Failed to start container %s", d.image)
	}

	var status int64
	okC, errC := cli.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case <-ctx.Done():
		bg := context.Background()
		if err := cli.ContainerKill(bg, resp.ID, "SIGKILL"); err != nil {
			log.Print(err)
		}
		return nil, match.ErrTimeout
	case err := <-errC:
		if ctx.Err() == context.DeadlineExceeded {
			return nil, match.ErrTimeout
		}
		return nil, errors.Wrapf(err, "Container %v signalled an error", d.image)
	case ok := <-okC:
		status = ok.StatusCode
	}

	logs, err := cli.ContainerLogs(context.Background(), resp.ID,
		types.ContainerLogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read logs of %s", d.image)
	}
	defer logs.Close()

	// Demux the log stream, forwarding the engine's stderr
	var out bytes.Buffer
	if _, err := stdcopy.StdCopy(&out, os.Stderr, logs); err != nil {
		return nil, err
	}

	if status != 0 && out.Len() == 0 {
		return nil, errors.Errorf("engine exited with status %d and no output", status)
	}
	return out.Bytes(), nil
}

var _ Engine = &docker{}
