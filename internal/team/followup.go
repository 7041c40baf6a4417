package team

import "context"

const (
	promptFollowUp          = "Provide additional instruction after sprint review."
	promptFollowUpArchitect = "Acknowledge follow-up instruction and adapt architecture guidance."
	promptFollowUpDeveloper = "Adjust implementation approach based on new instruction."
	promptFollowUpTester    = "Adapt validation strategy for follow-up instruction."
)

// HandleFollowUp applies a post-sprint instruction to result. Each member
// responds once; developer and tester notes land on the artifacts at the
// member's index when such an artifact exists. The record is appended to
// result.FollowUps and returned. Nothing already in result is rewritten.
// A nil result records nothing and yields a zero FollowUp.
func (t *Team) HandleFollowUp(result *Result, instruction string) FollowUp {
	if result == nil {
		return FollowUp{}
	}
	result.ensureLists()
	logger := t.log(context.Background()).With("iteration", result.iteration)

	result.log(speakerProductOwner, promptFollowUp, instruction)

	architectureNote := t.Architect.RespondToInstruction(instruction)
	result.log(t.Architect.Name(), promptFollowUpArchitect, architectureNote)

	developerNotes := make([]string, 0, len(t.Developers))
	for i, dev := range t.Developers {
		note := dev.RespondToInstruction(instruction)
		developerNotes = append(developerNotes, note)
		result.log(dev.Name(), promptFollowUpDeveloper, note)
		if i < len(result.ImplementationPlans) && result.ImplementationPlans[i] != nil {
			plan := result.ImplementationPlans[i]
			plan.FollowUpActions = append(plan.FollowUpActions, note)
		}
		if i < len(result.SourceCode) && result.SourceCode[i] != nil {
			result.SourceCode[i].FollowUpNotes = append(result.SourceCode[i].FollowUpNotes, note)
		}
		if i < len(result.UnitTests) && result.UnitTests[i] != nil {
			result.UnitTests[i].FollowUpNotes = append(result.UnitTests[i].FollowUpNotes, note)
		}
	}

	testerNotes := make([]string, 0, len(t.Testers))
	for i, tester := range t.Testers {
		note := tester.RespondToInstruction(instruction)
		testerNotes = append(testerNotes, note)
		result.log(tester.Name(), promptFollowUpTester, note)
		if i < len(result.TestPlans) && result.TestPlans[i] != nil {
			plan := result.TestPlans[i]
			plan.FollowUpActions = append(plan.FollowUpActions, note)
		}
		if i < len(result.TestScripts) && result.TestScripts[i] != nil {
			result.TestScripts[i].FollowUpNotes = append(result.TestScripts[i].FollowUpNotes, note)
		}
		if i < len(result.TestSummaries) && result.TestSummaries[i] != nil {
			result.TestSummaries[i].FollowUpNotes = append(result.TestSummaries[i].FollowUpNotes, note)
		}
	}

	followUp := FollowUp{
		Instruction:  instruction,
		Architecture: architectureNote,
		Development:  developerNotes,
		Testing:      testerNotes,
	}
	result.FollowUps = append(result.FollowUps, followUp)

	logger.Info("follow-up applied", "instruction", instruction, "follow_ups", len(result.FollowUps))
	t.logbook.Info("iteration %s: follow-up %d applied: %s", result.iteration, len(result.FollowUps), instruction)
	return followUp
}
