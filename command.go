package hologram

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/world"
)

// NewCommand returns the /hologram command for m.
//
//	/hologram list     lists holograms, marking those the caller sees with *
//	/hologram refresh  refreshes the text of all holograms
func NewCommand(m *Manager) cmd.Command {
	return cmd.New("hologram", "Inspect and refresh holograms.", []string{"holo"},
		listCommand{manager: m},
		refreshCommand{manager: m},
	)
}

type listCommand struct {
	List    cmd.SubCommand `cmd:"list"`
	manager *Manager
}

// Run lists all holograms.
func (c listCommand) Run(src cmd.Source, o *cmd.Output, _ *world.Tx) {
	names := c.manager.HologramNames()
	if len(names) == 0 {
		o.Print("There are no holograms.")
		return
	}

	_, sess := Command(src)

	o.Printf("Holograms (%d):", len(names))
	for _, name := range names {
		h := c.manager.Hologram(name)
		if h == nil {
			continue
		}
		mark := "-"
		if h.Visible(sess) {
			mark = "*"
		}
		pos := h.Location().Pos
		o.Printf("%s %s (#%d) at %.1f, %.1f, %.1f, %d viewers", mark, name, h.ID(), pos[0], pos[1], pos[2], h.Viewers())
	}
}

type refreshCommand struct {
	Refresh cmd.SubCommand `cmd:"refresh"`
	manager *Manager
}

// Run refreshes all holograms.
func (c refreshCommand) Run(_ cmd.Source, o *cmd.Output, _ *world.Tx) {
	c.manager.Refresh()
	o.Printf("Refreshed %d holograms.", len(c.manager.HologramNames()))
}
