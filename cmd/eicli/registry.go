package main

import (
	"sort"

	"github.com/spf13/cobra"
)

// Command groups, in help display order.
const (
	groupQuery    = "query"
	groupGenerate = "generate"
	groupAudio    = "audio"
	groupManage   = "manage"
)

var groupTitles = []struct {
	id    string
	title string
}{
	{groupQuery, "Query Commands:"},
	{groupGenerate, "Generation Commands:"},
	{groupAudio, "Audio Commands:"},
	{groupManage, "Management Commands:"},
}

type commandInfo struct {
	name  string
	group string
	build func(*commandContext) *cobra.Command
}

var commandRegistry []commandInfo

// registerCommand adds a command constructor to the registry. Command files
// call this from init so the root command discovers them without a central
// wiring list.
func registerCommand(info commandInfo) {
	commandRegistry = append(commandRegistry, info)
}

func buildCommands(ctx *commandContext) []*cobra.Command {
	infos := make([]commandInfo, len(commandRegistry))
	copy(infos, commandRegistry)
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].group != infos[j].group {
			return groupOrder(infos[i].group) < groupOrder(infos[j].group)
		}
		return infos[i].name < infos[j].name
	})

	commands := make([]*cobra.Command, 0, len(infos))
	for _, info := range infos {
		cmd := info.build(ctx)
		cmd.GroupID = info.group
		commands = append(commands, cmd)
	}
	return commands
}

func groupOrder(id string) int {
	for i, group := range groupTitles {
		if group.id == id {
			return i
		}
	}
	return len(groupTitles)
}
