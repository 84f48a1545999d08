package outbox

import (
	dbtypes "github.com/feedmirror/feedmirror/db/types"
	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

// SaveInstruction saves an undelivered instruction
func SaveInstruction(db types.BasicDB, instruction Instruction) error {
	data, err := instruction.Value()
	if err != nil {
		return err
	}
	return db.Set(instruction.Key(), data)
}

// DeleteInstruction deletes a delivered instruction
func DeleteInstruction(db types.BasicDB, instruction Instruction) error {
	return db.Delete(instruction.Key())
}

// LoadInstructions loads all undelivered instructions in push order
func LoadInstructions(db types.DB) (instructions []Instruction, err error) {
	iterErr := db.Iterate(dbtypes.AppendSplitter(feed.InstructionKey), nil, func(_, value []byte) (stop bool, err error) {
		instruction := Instruction{}
		err = instruction.Unmarshal(value)
		if err != nil {
			return true, err
		}
		instructions = append(instructions, instruction)
		return false, nil
	})
	if iterErr != nil {
		return nil, iterErr
	}
	return instructions, nil
}
